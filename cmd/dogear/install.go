package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/dogear/internal/manifest"
)

type manifestFlags struct {
	browser      string
	extensionIDs []string
	binary       string
}

func (f *manifestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.browser, "browser", "b", manifest.Chrome, "Browser: chrome, chromium, brave or firefox")
	cmd.Flags().StringSliceVar(&f.extensionIDs, "extension-id", nil, "Extension id allowed to connect (repeatable)")
	cmd.Flags().StringVar(&f.binary, "binary", "", "Host binary path (default: this executable)")
	_ = cmd.MarkFlagRequired("extension-id")
}

func (f *manifestFlags) build() (manifest.Manifest, error) {
	bin := f.binary
	if bin == "" {
		exe, err := os.Executable()
		if err != nil {
			return manifest.Manifest{}, fmt.Errorf("locate executable: %w", err)
		}
		bin = exe
	}
	bin, err := filepath.Abs(bin)
	if err != nil {
		return manifest.Manifest{}, err
	}
	return manifest.New(f.browser, bin, f.extensionIDs...)
}

func newInstallCmd(a *app) *cobra.Command {
	var (
		f   manifestFlags
		dir string
	)

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Register the host with a browser",
		Example: `  dogear install --browser firefox --extension-id dogear@example.org`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.build()
			if err != nil {
				return err
			}
			if dir == "" {
				if dir, err = manifest.Dir(f.browser); err != nil {
					return err
				}
			}
			path, err := manifest.Install(dir, m)
			if err != nil {
				return err
			}
			a.logger.Debug("manifest installed", "browser", f.browser, "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest written: %s\n", path)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&dir, "dir", "", "Manifest directory (default: the browser's per-user directory)")
	return cmd
}

func newManifestCmd(a *app) *cobra.Command {
	var f manifestFlags

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the host manifest without installing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := f.build()
			if err != nil {
				return err
			}
			data, err := m.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	f.register(cmd)
	return cmd
}
