package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (yl *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "github-user-crawler",
			Version: "0.0.1",
		},

		// Mysql
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "github_users",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessTokens:      []string{""},
			ApiUrl:            "https://api.github.com",
			PerPage:           100,
			MaxRetries:        3,
			BackoffBaseMs:     500,
			RequestTimeout:    30,
			RequestsPerSecond: 5,
			ThrottleDelay:     200,
		},

		// Location
		Location: Location{
			Provider:         "nominatim",
			PacingIntervalMs: 1000,
			NominatimApiUrl:  "https://nominatim.openstreetmap.org/search",
			OpencageApiUrl:   "https://api.opencagedata.com/geocode/v1/json",
			GoogleApiUrl:     "https://maps.googleapis.com/maps/api/geocode/json",
			ClaudeApiUrl:     "https://api.anthropic.com/v1/messages",
			ClaudeModel:      "claude-3-haiku-20240307",
			GeminiApiUrl:     "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent",
			GroqApiUrl:       "https://api.groq.com/openai/v1/chat/completions",
			GroqModel:        "llama-3.1-8b-instant",
		},

		// Kafka
		Kafka: Kafka{
			Brokers: []string{"127.0.0.1:9092"},
			Producer: KafkaProducer{
				TopicUser:    "github-users",
				TopicSummary: "crawl-summaries",
			},
		},

		// Crawler
		Crawler: Crawler{
			Version:  "v1",
			MaxUsers: 0,
			Workers:  5,
		},
	}, nil
}
