package clubar

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A terminal status bar driven by markup on stdin"
	MsgParseShort      = "Segment markup and print the resulting blocks"
	MsgGenConfigShort  = "Generate a configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgConfigWritten  = "Wrote configuration to %s\n"
	MsgConfigExists   = "configuration file %s already exists"
	MsgParseLineError = "line %d: %v\n"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Configuration file (default: XDG config dir, clubar/clubar.toml)"
	MsgFlagTopBar      = "Dock the bar at the top of the screen"
	MsgFlagGeometry    = "Bar geometry as x,y,width,height"
	MsgFlagPadding     = "Padding inside the bar: one value or left,right,top,bottom"
	MsgFlagMargin      = "Margin around the bar: one value or left,right,top,bottom"
	MsgFlagForeground  = "Default foreground color"
	MsgFlagBackground  = "Default background color"
	MsgFlagFonts       = "Comma separated font list, selected with <Fn=index>"
	MsgFlagFrontend    = "Frontend: auto, ansi or tui"
	MsgFlagColor       = "Color output: auto, always or never"
	MsgFlagCustomFile  = "File whose first line feeds the right side of the bar"
	MsgFlagMetricsAddr = "Serve prometheus metrics on this address"
	MsgFlagFormat      = "Output format: text, json, yaml, xml or toml"
	MsgFlagWrite       = "Write to the user configuration file instead of stdout"
	MsgFlagResolved    = "Print the effective configuration instead of the defaults"
	MsgFlagManDir      = "Directory the man pages are written to"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/parse-long.txt
	msgParseLongRaw string
	MsgParseLong    = strings.TrimSpace(msgParseLongRaw)

	//go:embed msgs/parse-example.txt
	msgParseExampleRaw string
	MsgParseExample    = strings.TrimRight(msgParseExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/genconfig-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimRight(msgGenConfigExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
