package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorBlue   = 36
	colorGray   = 37
	colorBright = 93
)

// PgFormatter renders log lines as colored key=value pairs with a
// stable field order.
type PgFormatter struct{}

func (f *PgFormatter) Format(entry *log.Entry) ([]byte, error) {
	var buf bytes.Buffer

	writePair(&buf, "level", colorize(levelColor(entry.Level), strings.ToUpper(entry.Level.String())[:4]))
	buf.WriteByte(' ')
	writePair(&buf, "ts", colorize(colorBright, entry.Time.Format("2006-01-02 15:04:05.000")))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(' ')
		writePair(&buf, k, colorize(colorGreen, fmt.Sprintf("%v", entry.Data[k])))
	}

	buf.WriteByte(' ')
	writePair(&buf, "msg", colorize(colorBright, fmt.Sprintf("%q", entry.Message)))

	line := strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(buf.String())
	return []byte(line + "\n"), nil
}

func writePair(buf *bytes.Buffer, key, value string) {
	buf.WriteString(colorize(colorBlue, key))
	buf.WriteByte('=')
	buf.WriteString(value)
}

func colorize(color int, s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, s)
}

func levelColor(level log.Level) int {
	switch level {
	case log.PanicLevel, log.FatalLevel, log.ErrorLevel:
		return colorRed
	case log.WarnLevel:
		return colorYellow
	case log.DebugLevel, log.TraceLevel:
		return colorGray
	default:
		return colorBlue
	}
}
