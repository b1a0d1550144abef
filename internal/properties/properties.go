package properties

import "os"

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func ImageryClientID() string {
	return os.Getenv("IMAGERY_CLIENT_ID")
}

func ImageryClientSecret() string {
	return os.Getenv("IMAGERY_CLIENT_SECRET")
}

func ImageryTokenURL() string {
	return os.Getenv("IMAGERY_TOKEN_URL")
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

// ColorMap assigns render colors to mask classes.
var ColorMap = map[string]Color{
	"vegetation": {34, 139, 34},
	"background": {139, 90, 43},
}
