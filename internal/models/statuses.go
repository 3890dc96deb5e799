package models

type Gender string
type ThemeMode string
type AccentColor string
type FontFamily string
type DigestFrequency string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"

	ThemeModeSystem ThemeMode = "system"
	ThemeModeLight  ThemeMode = "light"
	ThemeModeDark   ThemeMode = "dark"

	AccentBlue    AccentColor = "blue"
	AccentEmerald AccentColor = "emerald"
	AccentAmber   AccentColor = "amber"
	AccentIndigo  AccentColor = "indigo"

	FontInter    FontFamily = "inter"
	FontManrope  FontFamily = "manrope"
	FontRoboto   FontFamily = "roboto"
	FontWorkSans FontFamily = "workSans"

	DigestInstant DigestFrequency = "instant"
	DigestHourly  DigestFrequency = "hourly"
	DigestDaily   DigestFrequency = "daily"
	DigestWeekly  DigestFrequency = "weekly"
)
