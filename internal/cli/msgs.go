package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Generate container build contexts from templates"
	MsgListShort       = "List available templates"
	MsgShowShort       = "Print a template's resolved descriptor"
	MsgDescribeShort   = "Document a template's parameters and files"
	MsgValidateShort   = "Check that templates are well formed"
	MsgGenerateShort   = "Render a template into an output directory"
	MsgTestShort       = "Run a template's test stages"
	MsgBatchShort      = "Test several templates concurrently"
	MsgTagsShort       = "Print the image tags planned for a template"
	MsgWatchShort      = "Regenerate a template whenever its sources change"
	MsgGenConfigShort  = "Print the default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgDryRunNotice     = "\nDRY RUN MODE - No files were written"
	MsgReportWritten    = "Report written to %s\n"
	MsgWatchRegenerated = "%s regenerated (%s changed)\n"
	MsgWatchStarted     = "Watching %s, press Ctrl-C to stop\n"
	MsgManWritten       = "Man pages written to %s\n"

	// Error messages
	MsgErrTemplatesInvalid = "%d template(s) failed validation"
	MsgErrTestsFailed      = "%d template(s) failed testing"
	MsgErrUnknownCategory  = "unknown category: %s"
	MsgErrNoCommand        = "no command specified"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagTemplatesDir = "Template store root (default from config: templates_dir)"
	MsgFlagConfig       = "Configuration file (default ./dockplate.toml)"
	MsgFlagNoColor      = "Disable colored output"
	MsgFlagFormat       = "Output format: auto, table, text, json"
	MsgFlagCategory     = "Only include templates of this category"
	MsgFlagParams       = "Parameter file (.json, .yaml, .yml, .toml)"
	MsgFlagParam        = "Parameter assignment name=value (repeatable)"
	MsgFlagDryRun       = "Render without writing any files"
	MsgFlagStrict       = "Require explicit values for required parameters"
	MsgFlagReport       = "Write a markdown test report to this file"
	MsgFlagRegistry     = "Registry host (default from config: registry.host)"
	MsgFlagLatest       = "Include the latest tag"
	MsgFlagManDir       = "Directory to write man pages into"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/generate-long.txt
	msgGenerateLongRaw string
	MsgGenerateLong    = strings.TrimSpace(msgGenerateLongRaw)

	//go:embed msgs/generate-example.txt
	msgGenerateExampleRaw string
	MsgGenerateExample    = strings.TrimRight(msgGenerateExampleRaw, "\n")

	//go:embed msgs/test-long.txt
	msgTestLongRaw string
	MsgTestLong    = strings.TrimSpace(msgTestLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)
)
