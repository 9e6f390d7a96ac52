package bhashini

import (
	"net/http"
	"time"
)

const (
	// DefaultPipelineURL is the public Dhruva inference endpoint.
	DefaultPipelineURL = "https://dhruva-api.bhashini.gov.in/services/inference/pipeline"
	// DefaultRegistryURL lists pipeline models on ULCA.
	DefaultRegistryURL = "https://meity-auth.ulcacontrib.org/ulca/apis/v0/model/getModelsPipeline"

	defaultTimeout = 60 * time.Second
)

// Client talks to the inference pipeline.
type Client struct {
	ASR         *ASRService
	TTS         *TTSService
	Translation *TranslationService
	LangDetect  *LangDetectService
	Chain       *ChainService
	Registry    *RegistryService

	config *clientConfig
}

type clientConfig struct {
	pipelineURL string
	registryURL string
	userID      string // user_id header
	apiKey      string // api-key header
	authToken   string // Authorization header, sent verbatim
	httpClient  *http.Client
	timeout     time.Duration
}

// Option configures a Client.
type Option func(*clientConfig)

// NewClient creates a pipeline client. An empty pipelineURL selects
// DefaultPipelineURL.
func NewClient(pipelineURL string, opts ...Option) *Client {
	if pipelineURL == "" {
		pipelineURL = DefaultPipelineURL
	}
	config := &clientConfig{
		pipelineURL: pipelineURL,
		registryURL: DefaultRegistryURL,
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.httpClient == nil {
		config.httpClient = &http.Client{Timeout: config.timeout}
	}

	c := &Client{config: config}
	c.ASR = &ASRService{client: c}
	c.TTS = &TTSService{client: c}
	c.Translation = &TranslationService{client: c}
	c.LangDetect = &LangDetectService{client: c}
	c.Chain = &ChainService{client: c}
	c.Registry = &RegistryService{client: c}
	return c
}

// WithUserID sets the ULCA user id (user_id header).
func WithUserID(id string) Option {
	return func(c *clientConfig) {
		c.userID = id
	}
}

// WithAPIKey sets the ULCA API key (api-key header).
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithAuthToken sets the inference token sent as the Authorization header.
// The token is sent as is, without a "Bearer" prefix.
func WithAuthToken(token string) Option {
	return func(c *clientConfig) {
		c.authToken = token
	}
}

// WithRegistryURL overrides the ULCA model registry endpoint.
func WithRegistryURL(url string) Option {
	return func(c *clientConfig) {
		c.registryURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. It takes precedence over
// WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// setAuthHeaders sets the headers every pipeline call carries.
func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	if c.config.userID != "" {
		req.Header.Set("user_id", c.config.userID)
	}
	if c.config.apiKey != "" {
		req.Header.Set("api-key", c.config.apiKey)
	}
	if c.config.authToken != "" {
		req.Header.Set("Authorization", c.config.authToken)
	}
}
