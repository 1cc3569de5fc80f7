package container

// Backend names accepted by Options.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Event transports accepted by Options.Events.
const (
	EventsMemory = "memory"
	EventsRedis  = "redis"
)

// Options are read from flags and SERVICE_* environment variables by humacli.
type Options struct {
	Port          int    `default:"8888"                                              help:"Port to listen on"                                       short:"p"`
	Backend       string `default:"file"                                              help:"History backend: memory, file, redis or postgres"        short:"b"`
	CollectionKey string `default:"shortenedUrls"                                     help:"Key the history collection is stored under"              short:"k"`
	DataDir       string `default:".tinyurl-history"                                  help:"Directory used by the file backend"`
	RedisAddr     string `default:"localhost:6379"                                    help:"Redis server address"                                    short:"r"`
	DatabaseURL   string `default:"postgres://localhost:5432/tinyurl?sslmode=disable" help:"Postgres connection string"`
	Endpoint      string `default:"https://tinyurl.com/api-create.php?url="           help:"Shortening service endpoint the long URL is appended to"`
	Events        string `default:"memory"                                            help:"Event transport: memory or redis"`
	LogFormat     string `default:"console"                                           help:"Log format: console or json"`
	LogLevel      string `default:"info"                                              help:"Log level: debug, info, warn or error"`
}
