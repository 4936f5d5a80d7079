package notifier

import "strings"

// Command is a bot command such as "/run AAPL MSFT".
type Command struct {
	Name string
	Args []string
}

// ParseCommand reads text as a bot command. The name is lower-cased and a
// trailing @botname is removed. Text that does not start with "/" is not a command.
func ParseCommand(text string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}
	name := strings.ToLower(fields[0])
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return Command{Name: name, Args: fields[1:]}, true
}
