package console

// Command identifies one console operation.
type Command int

const (
	CmdUnknown Command = iota
	CmdReadProfile
	CmdWriteTime
	CmdLogData
	CmdDisplayData
	CmdSetInterval
	CmdPause
	CmdReset
	CmdVersion
	CmdShowMenu
)

// commandCodes is the fixed single-letter code table. Codes are matched
// case-insensitively after trimming.
var commandCodes = map[string]Command{
	"R": CmdReadProfile,
	"W": CmdWriteTime,
	"S": CmdLogData,
	"D": CmdDisplayData,
	"I": CmdSetInterval,
	"P": CmdPause,
	"X": CmdReset,
	"V": CmdVersion,
	"M": CmdShowMenu,
}

func (c Command) String() string {
	switch c {
	case CmdReadProfile:
		return "ReadProfile"
	case CmdWriteTime:
		return "WriteTime"
	case CmdLogData:
		return "LogData"
	case CmdDisplayData:
		return "DisplayData"
	case CmdSetInterval:
		return "SetInterval"
	case CmdPause:
		return "Pause"
	case CmdReset:
		return "Reset"
	case CmdVersion:
		return "Version"
	case CmdShowMenu:
		return "ShowMenu"
	default:
		return "Unknown"
	}
}
