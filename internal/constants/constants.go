package constants

// Centralized constants for headers, env keys and OpenAI integration.
const (
	// Environment variable keys
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvConfigPath    = "ROYALE_CONFIG"
	EnvDBPath        = "ROYALE_DB"
	EnvServerAddress = "ROYALE_ADDR"

	// Defaults used when neither config nor environment provide a value
	DefaultConfigPath    = "./royale_config.json"
	DefaultDBPath        = "./data/royale.db"
	DefaultServerAddress = ":8080"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI API endpoints and base URL
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"

	// OpenAI model names and typical parameters
	OpenAIChatModel          = "gpt-4o-mini"
	OpenAIMaxTokensDefault   = 400
	OpenAITemperatureDefault = 0.8
	OpenAITimeoutDefault     = 45 // seconds
)

// Roster limits shared by the roster store and the resolver.
const (
	MaxHitPoints     = 120
	DefaultHitPoints = 100
	MaxInjuries      = 5
	MaxGroupSize     = 3
	BioExcerptLength = 140
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteRoster         = "/roster"
	RouteRosterConfig   = "/roster-config"
	RouteSessions       = "/sessions"
	RouteSessionByID    = "/sessions/:sessionID"
	RouteSessionStart   = "/sessions/:sessionID/start"
	RouteSessionAdvance = "/sessions/:sessionID/advance"
	RouteSessionReset   = "/sessions/:sessionID/reset"
	RouteSessionRoster  = "/sessions/:sessionID/roster"
	RouteVersion        = "/version"

	ParamSessionID = "sessionID"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest        = "Invalid request"
	ErrInvalidRoster         = "Invalid roster configuration"
	ErrSessionNotFound       = "Session not found"
	ErrFailedCreateSession   = "Failed to create session"
	ErrFailedLoadRoster      = "Failed to load roster"
	ErrFailedSaveRoster      = "Failed to save roster configuration"
	ErrMissingAPIKey         = "An API key is required to start the session"
	ErrEmptyRoster           = "The roster is empty"
	ErrSessionNotStarted     = "Session has not been started"
	ErrSessionFinished       = "Session is finished; reset it to play again"
	ErrSessionAlreadyStarted = "Session is already running"
	ErrRosterLocked          = "Roster cannot change while a session is running"
	ErrFailedAdvanceRound    = "Failed to advance round"
)

// Logging field names
const (
	LogFieldSessionID  = "session_id"
	LogFieldRound      = "round"
	LogFieldEventID    = "event_id"
	LogFieldGeneration = "generation"
	LogFieldPlanKind   = "plan_kind"
	LogFieldTarget     = "target"
	LogFieldSurvivors  = "survivors"
	LogFieldStatus     = "status"
	LogFieldSource     = "source"
	LogFieldPath       = "path"
	LogFieldAddr       = "addr"
	LogFieldModel      = "model"
	LogFieldCount      = "count"
)
