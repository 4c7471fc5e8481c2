package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyHerdDBType string = "HERD_DB_TYPE"
	EnvKeyHerdDbPath string = "HERD_DB_PATH"

	EnvKeyHerdHttpHostPort string = "HERD_HTTP_HOST_PORT"

	EnvKeyTTNHost   string = "TTN_HOST"
	EnvKeyTTNPort   string = "TTN_PORT"
	EnvKeyTTNAppID  string = "TTN_APPID"
	EnvKeyTTNAppKey string = "TTN_APPKEY"

	EnvKeySmtpServer     string = "SMTP_SERVER"
	EnvKeySmtpPort       string = "SMTP_PORT"
	EnvKeySmtpUser       string = "SMTP_USER"
	EnvKeySmtpPassword   string = "SMTP_PASSWORD"
	EnvKeySmtpRecipients string = "SMTP_RECIPIENTS"

	EnvKeyRefLat string = "HERD_REF_LAT"
	EnvKeyRefLon string = "HERD_REF_LON"

	EnvKeyDistanceWarnM   string = "HERD_DISTANCE_WARN_M"
	EnvKeyDistanceDangerM string = "HERD_DISTANCE_DANGER_M"

	EnvKeyBattVoltNormal  string = "HERD_BATT_V_NORMAL"
	EnvKeyBattVoltWarn    string = "HERD_BATT_V_WARN"
	EnvKeyBattCapWarn     string = "HERD_BATT_CAP_WARN"
	EnvKeyBattCapDanger   string = "HERD_BATT_CAP_DANGER"
	EnvKeySilenceWarn     string = "HERD_SILENCE_WARN"
	EnvKeySilenceDanger   string = "HERD_SILENCE_DANGER"
	EnvKeyRenotifyEvery   string = "HERD_RENOTIFY_EVERY"
	EnvKeyConfirmWindow   string = "HERD_CONFIRM_WINDOW"
	EnvKeyMovementWindow  string = "HERD_MOVEMENT_WINDOW"
	EnvKeyMovementEpsilon string = "HERD_MOVEMENT_EPSILON_M"
	EnvKeySweepPeriod     string = "HERD_SWEEP_PERIOD"
	EnvKeyMaxClockSkew    string = "HERD_MAX_CLOCK_SKEW"

	EnvKeyDownlinkRate  string = "HERD_DOWNLINK_RATE"
	EnvKeyDownlinkBurst string = "HERD_DOWNLINK_BURST"

	LoggerNameHerdCore      string = "herd_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameTTNBridge     string = "ttn_bridge"
	LoggerFieldHerdCategory string = "category"
	LoggerCategoryIngest    string = "ingest"
	LoggerCategoryEval      string = "eval"
	LoggerCategoryNotify    string = "notify"
	LoggerCategorySweep     string = "sweep"
	LoggerCategoryState     string = "state"
)
