//go:build !release

package log

import (
	"fmt"
	"log"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetDebug turns Debug and Debugf output on or off.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// Print calls the standard log.Print()
func Print(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
}

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Println calls the standard log.Println()
func Println(v ...interface{}) {
	log.Output(2, fmt.Sprintln(v...))
}

// Fatal calls the standard log.Fatal()
func Fatal(v ...interface{}) {
	log.Fatal(v...)
}

// Fatalf calls the standard log.Fatalf()
func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// Debug calls the standard log.Print() with a [DEBUG] prefix
func Debug(v ...interface{}) {
	if debugEnabled.Load() {
		log.Output(2, "[DEBUG] "+fmt.Sprint(v...))
	}
}

// Debugf calls the standard log.Printf() with a [DEBUG] prefix
func Debugf(format string, v ...interface{}) {
	if debugEnabled.Load() {
		log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
	}
}
