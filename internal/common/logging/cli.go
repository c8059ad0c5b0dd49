package logging

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// CommandLineFormatter renders entries as bare messages, without timestamps
// or level prefixes, for output meant to be read or piped by a human.
type CommandLineFormatter struct{}

func (f *CommandLineFormatter) Format(entry *log.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
}

// ConfigureCliLogging sets up logging suitable for command line tools:
// plain messages on stdout, no decoration.
func ConfigureCliLogging() {
	log.SetFormatter(&CommandLineFormatter{})
	log.SetOutput(os.Stdout)
}
