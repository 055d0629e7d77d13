package compile

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/modelload/internal/backend"
	"github.com/ekisa-team/modelload/internal/model"
	"github.com/ekisa-team/modelload/internal/source"
)

// MockRunner fakes the compiler process. onStart runs when the process "starts".
type MockRunner struct {
	mock.Mock
	onStart func(args []string)
}

func (m *MockRunner) Run(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
	panic("not used by the compiler")
}

func (m *MockRunner) Start(ctx context.Context, name string, args []string, stdin io.Reader) (io.ReadCloser, io.ReadCloser, func() error, error) {
	ret := m.Called(name, args)
	if m.onStart != nil {
		m.onStart(args)
	}
	wait, _ := ret.Get(0).(func() error)
	return io.NopCloser(strings.NewReader("compiled\n")), io.NopCloser(strings.NewReader(ret.String(1))), wait, ret.Error(2)
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"aotinductor ok", Request{Input: "m.ckpt", Output: "out.nequip.pt2", Mode: ModeAOTInductor, Target: "ase"}, false},
		{"torchscript ok", Request{Input: "m.ckpt", Output: "out.nequip.pth", Mode: ModeTorchScript}, false},
		{"aotinductor needs target", Request{Input: "m.ckpt", Output: "out.nequip.pt2", Mode: ModeAOTInductor}, true},
		{"torchscript rejects target", Request{Input: "m.ckpt", Output: "out.nequip.pth", Mode: ModeTorchScript, Target: "ase"}, true},
		{"wrong suffix", Request{Input: "m.ckpt", Output: "out.pth", Mode: ModeTorchScript}, true},
		{"mode suffix mismatch", Request{Input: "m.ckpt", Output: "out.nequip.pth", Mode: ModeAOTInductor, Target: "ase"}, true},
		{"unknown mode", Request{Input: "m.ckpt", Output: "out.nequip.pth", Mode: "onnx"}, true},
		{"missing input", Request{Output: "out.nequip.pth", Mode: ModeTorchScript}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompiler_CompileRegistryModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("package"))
	}))
	defer srv.Close()

	tempDir := t.TempDir()
	resolver := source.NewResolver("nequip.net",
		source.WithTempDir(tempDir),
		source.WithFetcher(source.KindURL, &source.URLFetcher{Client: srv.Client()}),
	)

	output := filepath.Join(t.TempDir(), "mir-group__NequIP-OAM-L__0.1.nequip.pt2")
	runner := &MockRunner{onStart: func(args []string) {
		// input must still exist while the compiler runs
		_, err := os.Stat(args[0])
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(args[1], []byte("pt2"), 0o644))
	}}
	runner.On("Start", "nequip-compile", mock.MatchedBy(func(args []string) bool {
		return len(args) == 8 &&
			strings.HasPrefix(args[0], tempDir) &&
			args[1] == output &&
			args[2] == "--mode" && args[3] == "aotinductor" &&
			args[4] == "--device" && args[5] == "cpu" &&
			args[6] == "--target" && args[7] == "ase"
	})).Return(func() error { return nil }, "", nil).Once()

	c := NewCompiler(backend.NewExecutorWithRunner("nequip-compile", time.Minute, runner), resolver, "cpu")
	err := c.Compile(context.Background(), Request{
		Input:  srv.URL + "/model.nequip.zip",
		Output: output,
		Mode:   ModeAOTInductor,
		Target: "ase",
	})
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	runner.AssertExpectations(t)
}

func TestCompiler_CompilerFailure(t *testing.T) {
	input := filepath.Join(t.TempDir(), "model.ckpt")
	require.NoError(t, os.WriteFile(input, []byte("ckpt"), 0o644))

	runner := new(MockRunner)
	runner.On("Start", mock.Anything, mock.Anything).
		Return(func() error { return errors.New("exit status 1") }, "RuntimeError: CUDA", nil).Once()

	c := NewCompiler(backend.NewExecutorWithRunner("nequip-compile", time.Minute, runner), source.NewResolver("nequip.net"), "cuda")
	err := c.Compile(context.Background(), Request{
		Input:  input,
		Output: filepath.Join(t.TempDir(), "out.nequip.pth"),
		Mode:   ModeTorchScript,
	})

	assert.ErrorContains(t, err, "RuntimeError: CUDA")
}

func TestCompiler_NoOutput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "model.ckpt")
	require.NoError(t, os.WriteFile(input, []byte("ckpt"), 0o644))

	runner := new(MockRunner)
	runner.On("Start", mock.Anything, mock.Anything).Return(func() error { return nil }, "", nil).Once()

	c := NewCompiler(backend.NewExecutorWithRunner("nequip-compile", time.Minute, runner), source.NewResolver("nequip.net"), "cpu")
	err := c.Compile(context.Background(), Request{
		Input:  input,
		Output: filepath.Join(t.TempDir(), "out.nequip.pth"),
		Mode:   ModeTorchScript,
	})

	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestCompiler_MissingInput(t *testing.T) {
	runner := new(MockRunner)

	c := NewCompiler(backend.NewExecutorWithRunner("nequip-compile", time.Minute, runner), source.NewResolver("nequip.net"), "cpu")
	err := c.Compile(context.Background(), Request{
		Input:  "missing.ckpt",
		Output: "out.nequip.pth",
		Mode:   ModeTorchScript,
	})

	assert.ErrorIs(t, err, model.ErrModelFileNotFound)
	runner.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}
