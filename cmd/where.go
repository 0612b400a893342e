package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/media/mpv"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is one file or directory reelroom reads or writes.
type location struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Size   int64  `json:"size,omitempty"`

	// Entries counts directory contents, or live mpv sockets.
	Entries int `json:"entries,omitempty"`
	dir     bool
	unit    string
}

func (l location) status() string {
	switch {
	case !l.Exists:
		return "missing"
	case l.dir:
		return fmt.Sprintf("%d %s", l.Entries, lo.Ternary(l.Entries == 1, l.unit, l.unit+"s"))
	default:
		return humanize.Bytes(uint64(l.Size))
	}
}

type whereTarget struct {
	name, flag, short string
	path              func() string
}

var whereTargets = []whereTarget{
	{"Config", "config", "c", configFile},
	{"Catalog", "catalog", "L", func() string { return library.CatalogPath(config.LibraryDir()) }},
	{"History", "history", "H", where.History},
	{"Logs", "logs", "l", where.Logs},
	{"Cache", "cache", "", where.Cache},
	{"Player sockets", "sockets", "", where.Temp},
}

func stat(name, path string) location {
	l := location{Name: name, Path: path, unit: "entry"}

	info, err := filesystem.API().Stat(path)
	if err != nil {
		return l
	}

	l.Exists = true
	l.dir = info.IsDir()
	if !l.dir {
		l.Size = info.Size()
		return l
	}

	if entries, err := filesystem.API().ReadDir(path); err == nil {
		l.Entries = len(entries)
	}
	return l
}

// locations resolves every target against the current configuration.
// The temp directory is reported by the mpv sockets it holds.
func locations() []location {
	return lo.Map(whereTargets, func(t whereTarget, _ int) location {
		l := stat(t.name, t.path())
		if t.flag != "sockets" || !l.Exists {
			return l
		}

		l.unit = "socket"
		l.Entries = 0
		if found, err := mpv.Sockets(); err == nil {
			l.Entries = len(found)
		}
		return l
	})
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		usage := "Print only the " + strings.ToLower(t.name) + " path"
		if t.short != "" {
			whereCmd.Flags().BoolP(t.flag, t.short, false, usage)
		} else {
			whereCmd.Flags().Bool(t.flag, false, usage)
		}
	}
	whereCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where reelroom keeps its settings, catalog and player sockets",
	Run: func(cmd *cobra.Command, args []string) {
		if only, ok := lo.Find(whereTargets, func(t whereTarget) bool {
			return lo.Must(cmd.Flags().GetBool(t.flag))
		}); ok {
			cmd.Println(only.path())
			return
		}

		all := locations()
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(all))
			return
		}

		name := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, l := range all {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", name(l.Name), style.Faint("("+l.status()+")"))
			cmd.Println(l.Path)
		}
	},
}
