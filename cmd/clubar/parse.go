package clubar

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/clubar/pkg/bar"
	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/dump"
	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/markup"
	"github.com/arthur-debert/clubar/pkg/ui/output/styles"
)

func newParseCmd(flags *barFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "parse [markup...]",
		Short:   MsgParseShort,
		Long:    MsgParseLong,
		Example: MsgParseExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := dump.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := config.Load(flags.loadOptions(cmd))
			if err != nil {
				return err
			}
			p := &parser{
				segmenter: markup.NewSegmenter(markup.WithLimits(markup.Limits{
					MaxInput:  cfg.Limits.MaxInput,
					MaxValue:  cfg.Limits.MaxValue,
					MaxBlocks: cfg.Limits.MaxBlocks,
				})),
				format: f,
				out:    cmd.OutOrStdout(),
				errOut: cmd.ErrOrStderr(),
			}

			if len(args) > 0 {
				for _, line := range args {
					if err := p.line(line); err != nil {
						return err
					}
				}
			} else {
				err := bar.ReadLines(cmd.Context(), cmd.InOrStdin(), p.line)
				if err != nil {
					return err
				}
			}

			if p.failed > 0 {
				return errors.Newf(errors.ErrInvalidInput, "%d of %d line(s) failed to segment", p.failed, p.count).
					WithDetail("failed", p.failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", string(dump.FormatText), MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range dump.Formats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// parser dumps one document per line. Segmentation failures are reported
// and counted; write failures stop the command.
type parser struct {
	segmenter *markup.Segmenter
	format    dump.Format
	out       io.Writer
	errOut    io.Writer
	count     int
	failed    int
	written   int
}

func (p *parser) line(line string) error {
	p.count++
	blocks, err := p.segmenter.Segment(line)
	if err != nil {
		p.failed++
		fmt.Fprint(p.errOut, styles.Render("Error", fmt.Sprintf(MsgParseLineError, p.count, err)))
		return nil
	}
	doc := dump.FromBlocks(line, blocks)
	p.segmenter.Release(blocks)

	if p.written > 0 && p.format == dump.FormatYAML {
		fmt.Fprintln(p.out, "---")
	}
	p.written++
	return dump.Write(p.out, p.format, doc)
}
