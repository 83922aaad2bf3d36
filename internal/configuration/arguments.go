package configuration

import (
	"strings"
	"time"

	"github.com/clambin/absensi/internal/scheduler"
	"github.com/clambin/go-common/charmer"
	"github.com/spf13/viper"
)

// Arguments lists every configuration key with its default value.
var Arguments = charmer.Arguments{
	"debug":                  {Default: false, Help: "Log debug messages"},
	"attendance.url":         {Default: "https://naradaya.adhimix.web.id/", Help: "Base URL of the attendance service"},
	"attendance.username":    {Default: "", Help: "Attendance username (prompted if empty)"},
	"attendance.password":    {Default: "", Help: "Attendance password (prompted if empty)"},
	"schedule.morning":       {Default: "07:45-08:15", Help: "Morning submission window (HH:MM-HH:MM)"},
	"schedule.evening":       {Default: "17:10-18:00", Help: "Evening submission window (HH:MM-HH:MM)"},
	"schedule.weekdays":      {Default: strings.Join(scheduler.WorkingDays, ","), Help: "Comma-separated days on which attendance is submitted"},
	"schedule.timezone":      {Default: "Local", Help: "Time zone of the submission windows"},
	"schedule.wakeAt":        {Default: "00:05", Help: "Time of day at which the next day's run starts"},
	"schedule.pollInterval":  {Default: 30 * time.Second, Help: "Interval between deferral checks while waiting"},
	"schedule.probeInterval": {Default: 5 * time.Minute, Help: "Interval between network checks while waiting"},
	"retry.enabled":          {Default: true, Help: "Retry failed requests"},
	"retry.attempts":         {Default: 540, Help: "Maximum attempts per operation"},
	"retry.delay":            {Default: 30 * time.Second, Help: "Delay between attempts"},
	"retry.timeout":          {Default: 30 * time.Second, Help: "Timeout per request"},
	"probe.targets":          {Default: "https://8.8.8.8,https://1.1.1.1", Help: "Comma-separated URLs used to check the network connection"},
	"probe.timeout":          {Default: 5 * time.Second, Help: "Timeout per probe target"},
	"probe.serviceTimeout":   {Default: 10 * time.Second, Help: "Timeout when probing the attendance service"},
	"log.file":               {Default: "absensi_log.txt", Help: "Log file (empty to disable)"},
	"control.stdin":          {Default: true, Help: "Read commands from the terminal"},
	"control.addr":           {Default: "", Help: "Address of the HTTP control API (empty to disable)"},
	"control.allowedOrigins": {Default: "", Help: "Comma-separated origins allowed to call the HTTP control API"},
	"slack.token":            {Default: "", Help: "Slack bot token (empty to disable)"},
}

// SetDefaults registers the default of every argument with v.
func SetDefaults(v *viper.Viper) {
	for key, arg := range Arguments {
		v.SetDefault(key, arg.Default)
	}
}
