package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func EarthEngineProject() string {
	return os.Getenv("EARTHENGINE_PROJECT")
}

func EarthEngineClientID() string {
	return os.Getenv("EARTHENGINE_CLIENT_ID")
}

func EarthEngineClientSecret() string {
	return os.Getenv("EARTHENGINE_CLIENT_SECRET")
}

func EarthEngineTokenURL() string {
	return os.Getenv("EARTHENGINE_TOKEN_URL")
}

func ExportBucket() string {
	return os.Getenv("EXPORT_BUCKET")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

type Color struct {
	R, G, B uint8
}

// ColorMap paints classification labels in rendered outputs.
var ColorMap = map[string]Color{
	"anomaly": {0, 255, 0},
	"normal":  {0, 90, 200},
	"cloud":   {128, 128, 128},
	"unknown": {255, 0, 0},
}
