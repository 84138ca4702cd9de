package main

type Configuration struct {
	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBSSL  string
	// DatabaseURL takes precedence over the separate POSTGRES_* settings.
	DatabaseURL string
	// Allowed origins for CORS, comma separated
	AllowedOrigins string
	Port           string
}

func (c Configuration) postgresURI() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.DBUser + ":" + c.DBPass + "@" + c.DBHost + "/" + c.DBName + "?sslmode=" + c.DBSSL
}
