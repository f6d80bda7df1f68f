package implshard

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Deliver implementor shards to a late-installed sink"
	MsgLoadShort       = "Load a shard tree and show what the sink collected"
	MsgInspectShort    = "Decode one shard file and show what it announces"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgInspectShard   = "%s (%d implementors) from %s\n"
	MsgInspectImpl    = "  %s\n"
	MsgInspectGeneric = "    generics: %s\n"
	MsgInspectWhere   = "    where: %s\n"
	MsgInspectEmpty   = "  (no implementors)\n"

	// Error messages
	MsgErrNoCommand = "no command specified"
	MsgErrLoad      = "failed to load %s: %w"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOrder        = "Shard load order: listed, reversed or shuffled"
	MsgFlagSeed         = "Seed for the shuffled order"
	MsgFlagInstallAfter = "Shards to run before the sink is installed (negative: all)"
	MsgFlagFormat       = "Output format: auto, term, text, json or markdown"
	MsgFlagFormats      = "Shard formats to decode (script, toml, yaml, json, xml)"
)

// Long messages
const (
	MsgRootLong = `implshard simulates the two-phase delivery used by generated
documentation: each shard publishes the implementors one crate adds to a
trait, whether or not the registration sink exists yet. Shards that run
before the sink is installed are buffered in a holding area and drained, in
order, exactly once when it arrives. Shards that run afterwards are
delivered directly.`

	MsgLoadLong = `Load walks a shard tree, runs every shard against a fresh registry in
the configured order, installs the sink at the configured point and renders
what the sink collected.

Settings come from the built-in defaults, the user config file, a
.implshard.toml in the shard tree, IMPLSHARD_* environment variables and the
flags below, each layer overriding the previous one.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(implshard completion bash)

Zsh:
  $ implshard completion zsh > "${fpath[1]}/_implshard"

Fish:
  $ implshard completion fish | source

PowerShell:
  PS> implshard completion powershell | Out-String | Invoke-Expression
`
)
