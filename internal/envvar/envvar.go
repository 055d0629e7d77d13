package envvar

const (
	// ModelloadEnv is the environment variable used to determine the environment
	ModelloadEnv = "MODELLOAD_ENV"

	// ModelloadConfig is the environment variable used to locate the config file
	ModelloadConfig = "MODELLOAD_CONFIG"

	// ModelloadRegistryURL overrides the model registry base URL
	ModelloadRegistryURL = "MODELLOAD_REGISTRY_URL"

	// ModelloadRegistryToken is the bearer token sent to the model registry
	ModelloadRegistryToken = "MODELLOAD_REGISTRY_TOKEN"

	// ModelloadTmpDir overrides the directory used for temporary downloads
	ModelloadTmpDir = "MODELLOAD_TMPDIR"
)
