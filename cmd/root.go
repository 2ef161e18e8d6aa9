package cmd

import (
	"fmt"
	"os"

	"transease/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X transease/cmd.Version=...".
var Version = "dev"

// envDir is the directory holding the optional .env file.
var envDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "transease",
	Short: "TransEase FTP Server",
	Long: `TransEase is an anonymous FTP server sharing one directory tree.
It keeps its settings in an INI file, converts file names between GB18030 and UTF-8,
and exposes an HTTP admin API to control the server and follow its logs.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable timestamps on the terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding the .env file")
}
