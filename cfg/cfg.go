package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	GithubApi struct {
		AccessTokens      []string
		ApiUrl            string
		PerPage           int
		MaxRetries        int
		BackoffBaseMs     int
		RequestTimeout    int
		RequestsPerSecond int
		ThrottleDelay     int
	}

	Location struct {
		Provider         string
		PacingIntervalMs int

		NominatimApiUrl string
		OpencageApiUrl  string
		OpencageApiKey  string
		GoogleApiUrl    string
		GoogleApiKey    string

		ClaudeApiUrl string
		ClaudeApiKey string
		ClaudeModel  string
		GeminiApiUrl string
		GeminiApiKey string
		GroqApiUrl   string
		GroqApiKey   string
		GroqModel    string
	}

	KafkaProducer struct {
		TopicUser    string
		TopicSummary string
	}

	Kafka struct {
		Brokers  []string
		Producer KafkaProducer
	}

	Crawler struct {
		Version  string
		MaxUsers int
		Workers  int
	}
)

type Config struct {
	App       App
	Mysql     Mysql
	GithubApi GithubApi
	Location  Location
	Kafka     Kafka
	Crawler   Crawler
}
