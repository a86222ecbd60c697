package log

import (
	"io"
	"log"
	"os"
)

var (
	Trace   = log.New(io.Discard, "TRACE: ", log.Ldate|log.Ltime|log.Lshortfile)
	Info    = log.New(io.Discard, "INFO: ", log.Ldate|log.Ltime)
	Warning = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	Error   = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init points the four loggers at the given writers
func Init(
	traceHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer) {

	Trace.SetOutput(traceHandle)
	Info.SetOutput(infoHandle)
	Warning.SetOutput(warningHandle)
	Error.SetOutput(errorHandle)
}

// InitLog configures logging from RMRASTER_TRACE and RMRASTER_VERBOSE
func InitLog() {
	var trace io.Writer = io.Discard
	var info io.Writer = io.Discard

	if os.Getenv("RMRASTER_TRACE") == "1" {
		trace = os.Stdout
		info = os.Stdout
	}
	if os.Getenv("RMRASTER_VERBOSE") == "1" {
		info = os.Stdout
	}

	Init(trace, info, os.Stdout, os.Stderr)
}
