package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asInt
}

// GetBool accepts the forms strconv.ParseBool does; anything else yields defaultValue.
func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetList splits a comma separated value, dropping blank entries.
func GetList(config map[string]string, key string) []string {
	var out []string
	for _, part := range strings.Split(GetString(config, key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Database backends selected by DB_TYPE.
const (
	DBTypeSupabase = "supa"
	DBTypePostgres = "postgres"
	DBTypeNone     = "none"
)

type Server struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	BackendPassword string
	AcceptedOrigins []string
}

type Database struct {
	Type        string
	DSN         string
	ReplicaDSNs []string
}

type Storage struct {
	PublicBaseURL   string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Enabled reports whether uploads can be stored.
func (s Storage) Enabled() bool { return s.Bucket != "" }

type Settings struct {
	Server               Server
	Database             Database
	Storage              Storage
	FallbackDatasetPath  string
	RelatedProjectsLimit int
	AutoMigrate          bool
	GenerateSchemaReport bool
}

// Load assembles Settings from an environment map such as the one New returns.
func Load(env map[string]string) (Settings, error) {
	s := Settings{
		Server: Server{
			Port:            GetString(env, "PORT", "8080"),
			ReadTimeout:     time.Duration(GetInt(env, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
			WriteTimeout:    time.Duration(GetInt(env, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
			IdleTimeout:     time.Duration(GetInt(env, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
			BackendPassword: GetString(env, "BACKEND_PASSWORD", ""),
			AcceptedOrigins: GetList(env, "ACCEPTED_ORIGINS"),
		},
		Storage: Storage{
			PublicBaseURL:   GetString(env, "STORAGE_PUBLIC_BASE_URL", ""),
			Bucket:          GetString(env, "S3_BUCKET", ""),
			Region:          GetString(env, "S3_REGION", "us-east-1"),
			Endpoint:        GetString(env, "S3_ENDPOINT", ""),
			AccessKeyID:     GetString(env, "S3_ACCESS_KEY", ""),
			SecretAccessKey: GetString(env, "S3_SECRET_KEY", ""),
			PathStyle:       GetBool(env, "S3_PATH_STYLE", false),
		},
		FallbackDatasetPath:  GetString(env, "FALLBACK_DATASET_PATH", ""),
		RelatedProjectsLimit: GetInt(env, "RELATED_PROJECTS_LIMIT", 3),
		AutoMigrate:          GetBool(env, "AUTO_MIGRATE", false),
		GenerateSchemaReport: GetBool(env, "GENERATE_SCHEMA_REPORT", false),
	}

	db, err := loadDatabase(env)
	if err != nil {
		return Settings{}, err
	}
	s.Database = db
	return s, nil
}

func loadDatabase(env map[string]string) (Database, error) {
	db := Database{
		Type:        strings.ToLower(strings.TrimSpace(GetString(env, "DB_TYPE", DBTypeSupabase))),
		ReplicaDSNs: GetList(env, "DATABASE_REPLICA_URL"),
	}

	switch db.Type {
	case DBTypeSupabase:
		db.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			GetString(env, "SUPABASE_DB_HOST", ""),
			GetString(env, "SUPABASE_DB_USER", ""),
			GetString(env, "SUPABASE_DB_PASSWORD", ""),
			GetString(env, "SUPABASE_DB_NAME", ""),
			GetString(env, "SUPABASE_DB_PORT", "5432"),
		)
	case DBTypePostgres:
		db.DSN = GetString(env, "DATABASE_URL", "")
		if db.DSN == "" {
			return Database{}, fmt.Errorf("DB_TYPE=%s requires DATABASE_URL", db.Type)
		}
	case DBTypeNone:
		db.ReplicaDSNs = nil
	default:
		return Database{}, fmt.Errorf("unsupported DB_TYPE %q", db.Type)
	}
	return db, nil
}
