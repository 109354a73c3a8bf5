// pkg/arcade/keys.go
package arcade

// Command is a player action decoded from terminal input
type Command int

// Player commands
const (
	CommandQuit Command = iota + 1
	CommandRestart
	CommandNext
	CommandAutopilot
	CommandTrajectory
	CommandAimUp
	CommandAimDown
	CommandPowerUp
	CommandPowerDown
	CommandFire
)

var commandNames = map[Command]string{
	CommandQuit:       "quit",
	CommandRestart:    "restart",
	CommandNext:       "next",
	CommandAutopilot:  "autopilot",
	CommandTrajectory: "trajectory",
	CommandAimUp:      "aim_up",
	CommandAimDown:    "aim_down",
	CommandPowerUp:    "power_up",
	CommandPowerDown:  "power_down",
	CommandFire:       "fire",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

const (
	keyCtrlC  = 0x03
	keyCtrlD  = 0x04
	keyEscape = 0x1b
)

var plainKeys = map[byte]Command{
	'q':      CommandQuit,
	'Q':      CommandQuit,
	keyCtrlC: CommandQuit,
	keyCtrlD: CommandQuit,
	'r':      CommandRestart,
	'n':      CommandNext,
	'p':      CommandAutopilot,
	't':      CommandTrajectory,
	'w':      CommandAimUp,
	's':      CommandAimDown,
	'd':      CommandPowerUp,
	'a':      CommandPowerDown,
	' ':      CommandFire,
	'\r':     CommandFire,
	'\n':     CommandFire,
}

var arrowKeys = map[byte]Command{
	'A': CommandAimUp,
	'B': CommandAimDown,
	'C': CommandPowerUp,
	'D': CommandPowerDown,
}

type parserState int

const (
	statePlain parserState = iota
	stateEscape
	stateCSI
)

// KeyParser decodes raw terminal bytes into commands. Arrow keys arrive as
// ESC [ A..D (or ESC O A..D) and may be split across reads, so the parser
// keeps state between calls.
type KeyParser struct {
	state parserState
}

// Feed decodes data and returns the commands it completes, in order.
// Unknown keys are dropped.
func (p *KeyParser) Feed(data []byte) []Command {
	var commands []Command
	for _, b := range data {
		switch p.state {
		case stateEscape:
			if b == '[' || b == 'O' {
				p.state = stateCSI
				continue
			}
			p.state = statePlain
			if b == keyEscape {
				p.state = stateEscape
				continue
			}
			if cmd, ok := plainKeys[b]; ok {
				commands = append(commands, cmd)
			}
		case stateCSI:
			// parameter bytes of longer sequences are skipped
			if b >= '0' && b <= '9' || b == ';' {
				continue
			}
			p.state = statePlain
			if cmd, ok := arrowKeys[b]; ok {
				commands = append(commands, cmd)
			}
		default:
			if b == keyEscape {
				p.state = stateEscape
				continue
			}
			if cmd, ok := plainKeys[b]; ok {
				commands = append(commands, cmd)
			}
		}
	}
	return commands
}
