package config

// EnvPrefix is the envconfig prefix; variable names carry the full
// INSTAPROMPT_ prefix in their tags so this stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "INSTAPROMPT_DB_DSN"
	EnvDBHost = "INSTAPROMPT_DB_HOST"
	EnvDBUser = "INSTAPROMPT_DB_USER"
	EnvDBName = "INSTAPROMPT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
