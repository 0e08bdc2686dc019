package clubar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/clubar/pkg/config"
	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/ui/output/styles"
)

// configFs is where genconfig writes. Tests swap it for a memory filesystem.
var configFs = afero.NewOsFs()

func newGenConfigCmd(flags *barFlags) *cobra.Command {
	var (
		write    bool
		resolved bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := []byte(config.GenerateConfigContent())
			if resolved {
				cfg, err := config.Load(flags.loadOptions(cmd))
				if err != nil {
					return err
				}
				if content, err = config.Marshal(cfg); err != nil {
					return err
				}
			}

			if !write {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			path := config.UserPath()
			if flags.configPath != "" {
				path = flags.configPath
			}
			if err := writeConfig(configFs, path, content); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), styles.Render("Success", fmt.Sprintf(MsgConfigWritten, path)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&resolved, "resolved", false, MsgFlagResolved)
	return cmd
}

func writeConfig(fs afero.Fs, path string, content []byte) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to check %s", path)
	}
	if exists {
		return errors.Newf(errors.ErrConfigLoad, MsgConfigExists, path).WithDetail("path", path)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to create %s", filepath.Dir(path))
	}
	if err := afero.WriteFile(fs, path, content, os.FileMode(0o644)); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to write %s", path)
	}
	return nil
}
