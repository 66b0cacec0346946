package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time durations for hold TTL and sweeping
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// hold lifecycle, ints for token lifetimes and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing

    HoldTTL            time.Duration // how long a seat hold stays valid absent renewal
    SweepInterval      time.Duration // how often the expiry sweeper scans for lapsed holds
    MaxSeatsPerSession int           // cap on seats one hold session may claim

    ConvenienceFeePercent float64 // booking fee as a percentage of the base amount
    MinConvenienceFeeCents uint32 // floor for the booking fee
    TaxPercent            float64 // tax applied to base plus fee
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Reservation tuning
// knobs fall back to sensible defaults so a minimal environment still runs.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),  // environment (dev/test/prod)
        Port:           must("APP_PORT"), // port to bind the HTTP server
        DBUser:         must("DB_USER"),  // database user
        DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:         must("DB_HOST"),  // database host
        DBPort:         must("DB_PORT"),  // database port
        DBName:         must("DB_NAME"),  // database name
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),

        HoldTTL:            envDuration("HOLD_TTL", 10*time.Minute),
        SweepInterval:      envDuration("SWEEP_INTERVAL", 5*time.Second),
        MaxSeatsPerSession: envIntDefault("MAX_SEATS_PER_SESSION", 10),

        ConvenienceFeePercent:  envFloat("CONVENIENCE_FEE_PERCENT", 2.5),
        MinConvenienceFeeCents: uint32(envIntDefault("MIN_CONVENIENCE_FEE_CENTS", 2000)),
        TaxPercent:             envFloat("TAX_PERCENT", 18.0),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// envDuration parses an optional duration variable ("600s", "10m"),
// returning the default when unset or malformed.
func envDuration(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil || d <= 0 {
        log.Printf("config: invalid duration for %s: %q, using %s", key, v, def)
        return def
    }
    return d
}

// envIntDefault parses an optional integer variable, returning the default
// when unset or malformed.
func envIntDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("config: invalid int for %s: %q, using %d", key, v, def)
        return def
    }
    return n
}

// envFloat parses an optional float variable, returning the default when
// unset or malformed.
func envFloat(key string, def float64) float64 {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    f, err := strconv.ParseFloat(v, 64)
    if err != nil {
        log.Printf("config: invalid float for %s: %q, using %g", key, v, def)
        return def
    }
    return f
}
