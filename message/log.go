package message

import (
	"fmt"
	"log"
)

func logWarning(format string, v ...any) {
	log.Printf(fmt.Sprintf("mimedit: warning: %s", format), v...)
}

// LogWarning is called when the parser recovers from something odd in its
// input, such as text before the first header field. The default prints with
// the log package. It may be reassigned but must not be nil.
var LogWarning = logWarning
