package configuration

import "github.com/adampresley/configinator"

type Config struct {
	CacheTTLMinutes     int    `flag:"cachettl" env:"CACHE_TTL_MINUTES" default:"60" description:"Number of minutes search results stay cached"`
	FetchCount          int    `flag:"fetchcount" env:"FETCH_COUNT" default:"10" description:"Number of images fetched per topic"`
	Host                string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	ImageTimeoutSeconds int    `flag:"imagetimeout" env:"IMAGE_TIMEOUT_SECONDS" default:"10" description:"Per-image download timeout in seconds"`
	InferenceUrl        string `flag:"inferenceurl" env:"INFERENCE_URL" default:"http://localhost:8000" description:"Base URL of the CLIP inference service"`
	LogLevel            string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxPrewarmWorkers   int    `flag:"mpw" env:"MAX_PREWARM_WORKERS" default:"4" description:"Maximum number of concurrent cache prewarm workers"`
	ModelID             string `flag:"modelid" env:"CLIP_MODEL_ID" default:"openai/clip-vit-base-patch32" description:"Identifier of the vision-language model used for scoring"`
	PrewarmEnabled      bool   `flag:"prewarm" env:"PREWARM_ENABLED" default:"true" description:"Warm the search cache for predefined topics on a schedule"`
	TopCount            int    `flag:"topcount" env:"TOP_COUNT" default:"5" description:"Number of top-ranked images displayed per topic"`
	UnsplashApiKey      string `flag:"unsplashkey" env:"UNSPLASH_ACCESS_KEY" default:"" description:"API credential for the Unsplash search service"`
	UnsplashBaseUrl     string `flag:"unsplashurl" env:"UNSPLASH_BASE_URL" default:"https://api.unsplash.com" description:"Base URL of the Unsplash API"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
