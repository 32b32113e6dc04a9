package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/solis-service/solis/internal/capture"
	"github.com/solis-service/solis/internal/config"
	"github.com/solis-service/solis/internal/logging"
	"github.com/solis-service/solis/internal/protocol"
	"github.com/solis-service/solis/internal/ui"
	"github.com/solis-service/solis/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds state shared by every subcommand
type app struct {
	configPath string
	logLevel   string
	format     string

	registry *config.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "solis-codec",
		Short: "Solis data logger frame decoder",
		Long: `Decode Solis (Solarman V5) data logger frames and build the
acknowledgements a cloud collector sends back.

Frames are given as hex on the command line (spaces, ':', '|' and '_' are
ignored) or read from stdin with '-'.`,
		Version:           version.Full(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Disable automatic completion command generation
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&a.format, "format", "", "Output format (detailed, compact, json, yaml); defaults to preferences.format")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/solis/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)

	root.AddCommand(
		a.headerCmd(),
		a.decodeCmd(),
		a.respondCmd(),
		a.checksumCmd(),
		a.replayCmd(),
		a.nicknameCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(a.logLevel); err != nil {
		return err
	}

	registry, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.registry = registry

	if a.format == "" {
		a.format = registry.Preferences.Format
	}
	if !config.ValidFormat(a.format) {
		return fmt.Errorf("invalid --format %q (want one of %s)", a.format, strings.Join(config.OutputFormats, ", "))
	}

	logging.Debug("Command started",
		zap.String("command", cmd.Name()),
		zap.String("format", a.format),
		zap.String("config", registry.Path()),
	)
	return nil
}

// frameInput joins hex arguments into one frame. A single "-" reads stdin.
func frameInput(cmd *cobra.Command, args []string) ([]byte, error) {
	text := strings.Join(args, "")
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.Join(strings.Fields(string(data)), "")
	}

	raw, err := capture.ParseHex(text)
	if err != nil {
		return nil, err
	}
	logging.LogRawBytes("Input frame", raw)
	return raw, nil
}

func (a *app) headerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <hex>...",
		Short: "Parse a frame header",
		Long: `Parse the 11-byte header at the start of a frame.

Only the length is checked; the start marker and control byte are ignored.`,
		Example: `  solis-codec header a5 0a 00 10 47 01 02 a2 f1 53 65
  solis-codec header --format json a50a0010470102a2f15365`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := frameInput(cmd, args)
			if err != nil {
				return err
			}

			h, err := protocol.ParseHeader(raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch a.format {
			case config.FormatDetailed:
				fmt.Fprintln(out, ui.RenderHeader(h, a.registry, ui.GetTerminalWidth()))
				return nil
			case config.FormatCompact:
				fmt.Fprintln(out, ui.FormatCompact(&protocol.Message{Header: h}, a.registry))
				return nil
			default:
				return writeStructured(out, a.format, h)
			}
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode <hex>...",
		Short: "Decode a frame header and inverter telemetry",
		Long: `Decode a frame. Inverter data frames (type 0x42) also get their
telemetry payload decoded; other types show the header only.

With --strict the V5 envelope (start marker, length, checksum, end marker)
is validated first.`,
		Example: `  solis-codec decode --format compact "$(cat frame.hex)"
  xxd -p frame.bin | solis-codec decode -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := frameInput(cmd, args)
			if err != nil {
				return err
			}

			if strict {
				if _, err := protocol.ParseFrame(raw); err != nil {
					return err
				}
			}

			msg, err := protocol.Decode(raw)
			if err != nil {
				return err
			}
			logging.LogFrame("", logging.DirectionInbound, protocol.MessageTypeName(msg.Header.MessageType), msg.Header.SerialNumber, raw)

			out := cmd.OutOrStdout()
			switch a.format {
			case config.FormatDetailed:
				fmt.Fprintln(out, ui.RenderMessage(msg, a.registry, ui.GetTerminalWidth()))
				return nil
			case config.FormatCompact:
				fmt.Fprintln(out, ui.FormatCompact(msg, a.registry))
				return nil
			default:
				return writeStructured(out, a.format, msg)
			}
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Validate markers, length and checksum before decoding")
	return cmd
}

func (a *app) respondCmd() *cobra.Command {
	var timestamp int64

	cmd := &cobra.Command{
		Use:   "respond <hex>...",
		Short: "Build the mock collector response for a frame",
		Long: `Build the acknowledgement a cloud collector sends for an inbound frame.

The response echoes the first payload byte, carries the current unix time
(or --timestamp) and reuses the request index and logger serial.`,
		Example: `  solis-codec respond --timestamp 1700000000 a50100104705070a0000000700`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := frameInput(cmd, args)
			if err != nil {
				return err
			}

			h, err := protocol.ParseHeader(raw)
			if err != nil {
				return err
			}

			var opts []protocol.ResponseOption
			if cmd.Flags().Changed("timestamp") {
				if err := checkTimestamp(timestamp); err != nil {
					return err
				}
				opts = append(opts, protocol.WithTimestamp(uint32(timestamp)))
			}

			resp, err := protocol.MockServerResponse(h, raw[protocol.HeaderSize:], opts...)
			if err != nil {
				return err
			}
			logging.LogFrame("", logging.DirectionOutbound, protocol.MessageTypeName(resp[4]), h.SerialNumber, resp)

			out := cmd.OutOrStdout()
			switch a.format {
			case config.FormatDetailed:
				fmt.Fprintln(out, ui.RenderResponse(resp, ui.GetTerminalWidth()))
				return nil
			case config.FormatCompact:
				fmt.Fprintln(out, hexString(resp))
				return nil
			default:
				return writeStructured(out, a.format, responseDTO{Request: h, ResponseHex: hexString(resp)})
			}
		},
	}

	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "Unix timestamp to embed instead of the current time")
	return cmd
}

func (a *app) checksumCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "checksum <hex>...",
		Short: "Compute the 8-bit frame checksum",
		Long: `Print the 8-bit additive checksum of the given bytes.

With --verify the input is treated as a complete frame and its checksum byte
is checked against frame[1:len-2].`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := frameInput(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verify {
				if err := protocol.VerifyChecksum(raw); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s checksum 0x%02x ok\n", ui.SuccessMarker, raw[len(raw)-protocol.TrailerSize])
				return nil
			}

			sum := protocol.ChecksumByte(raw)
			switch a.format {
			case config.FormatJSON, config.FormatYAML:
				return writeStructured(out, a.format, checksumDTO{Length: len(raw), Checksum: sum})
			default:
				fmt.Fprintf(out, "0x%02x\n", sum)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the checksum byte of a complete frame")
	return cmd
}

func (a *app) replayCmd() *cobra.Command {
	var (
		timestamp int64
		track     bool
	)

	cmd := &cobra.Command{
		Use:   "replay <capture-file-or-dir>",
		Short: "Decode every frame in a capture",
		Long: `Replay a capture file (or every *.jsonl and *.hex file in a directory).

Each line is a hex frame or a JSONL record with a payload_hex field. Every
frame is decoded and inbound frames get a mock response. Frames that fail to
decode are reported and skipped.

With --track (or preferences.track_inverters) each logger seen is recorded in
the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := capture.ReadPath(args[0])
			if err != nil {
				return err
			}

			cfg := capture.ReplayConfig{}
			if cmd.Flags().Changed("timestamp") {
				if err := checkTimestamp(timestamp); err != nil {
					return err
				}
				cfg.ResponseOptions = append(cfg.ResponseOptions, protocol.WithTimestamp(uint32(timestamp)))
			}
			if !cmd.Flags().Changed("track") {
				track = a.registry.Preferences.TrackInverters
			}
			if track {
				cfg.Tracker = a.registry
			}

			results, stats, err := capture.Replay(cmd.Context(), entries, cfg)
			if err != nil {
				return err
			}

			if track {
				if err := a.registry.Save(); err != nil {
					return err
				}
			}

			return a.printReplay(cmd.OutOrStdout(), results, stats)
		},
	}

	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "Unix timestamp to embed in every response")
	cmd.Flags().BoolVar(&track, "track", false, "Record loggers seen in the config file")
	return cmd
}

func (a *app) printReplay(out io.Writer, results []capture.Result, stats capture.Stats) error {
	switch a.format {
	case config.FormatJSON, config.FormatYAML:
		dto := replayDTO{Results: make([]replayResultDTO, 0, len(results)), Stats: newStatsDTO(stats)}
		for _, r := range results {
			dto.Results = append(dto.Results, newReplayResultDTO(r))
		}
		return writeStructured(out, a.format, dto)
	}

	width := ui.GetTerminalWidth()
	for _, r := range results {
		loc := fmt.Sprintf("%s:%d", r.Entry.Source, r.Entry.Line)
		switch {
		case r.Err != nil && a.format == config.FormatCompact:
			fmt.Fprintf(out, "%s %s error=%q\n", loc, ui.FailureMarker, r.Err)
		case r.Err != nil:
			fmt.Fprintln(out, ui.NewFailureResult(loc, r.Err).SetWidth(width).Render())
		case a.format == config.FormatCompact:
			fmt.Fprintf(out, "%s %s %s\n", loc, r.Entry.Direction, ui.FormatCompact(r.Message, a.registry))
			if r.Response != nil {
				fmt.Fprintf(out, "%s %s %s\n", loc, logging.DirectionOutbound, hexString(r.Response))
			}
		default:
			fmt.Fprintln(out, ui.RenderMessage(r.Message, a.registry, width))
			if r.Response != nil {
				fmt.Fprintln(out, ui.RenderResponse(r.Response, width))
			}
		}
	}

	fmt.Fprintf(out, "\n%d frames: %d decoded, %d failed, %d responses\n",
		stats.Total, stats.Decoded, stats.Failed, stats.Responses)
	return nil
}

func (a *app) nicknameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nickname <logger-serial> [name]",
		Short: "Show or set a logger nickname",
		Long: `Show or set the display name for a data logger serial number.

An empty name clears the nickname.`,
		Example: `  solis-codec nickname 1700000001 "Garage Roof"`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serial, err := parseSerial(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				fmt.Fprintln(out, a.registry.DisplayName(serial))
				return nil
			}

			a.registry.SetNickname(serial, args[1])
			if err := a.registry.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %d is now %q\n", ui.SuccessMarker, serial, a.registry.DisplayName(serial))
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch a.format {
			case config.FormatJSON, config.FormatYAML:
				return writeStructured(cmd.OutOrStdout(), a.format, version.Get())
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "solis-codec %s\n", version.Full())
				return nil
			}
		},
	}
}
