/*
Copyright © 2026 the FluidScene authors.
This file is part of FluidScene.

FluidScene is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FluidScene is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FluidScene.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package fluidsceneutil contains the command-line interface and
// configuration handling for FluidScene.
package fluidsceneutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/phiflow/fluidscene"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to FluidScene.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level specifies the minimum severity of log messages.
              Valid values are panic, fatal, error, warn, info, debug and trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "dir",
			usage: `
              dir specifies the directory holding the scene categories.
              It may contain environment variables and a leading ~.`,
			shorthand:  "d",
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), listCmd.Flags(), downloadCmd.Flags()},
		},
		{
			name: "category",
			usage: `
              category specifies the scene category. New categories are
              converted to lowercase, hyphen-separated names. If empty, the
              last element of dir is used as the category.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), listCmd.Flags(), downloadCmd.Flags()},
		},
		{
			name: "count",
			usage: `
              count specifies the number of scenes to create.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{createCmd.Flags()},
		},
		{
			name: "src",
			usage: `
              src specifies source or parameter files to copy into the
              src directory of each new scene. Files may be local paths,
              HTTP URLs or blob storage locations such as 'gs://bucket/file'.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{createCmd.Flags()},
		},
		{
			name: "max",
			usage: `
              max specifies the maximum number of scenes to list. Zero means
              no limit.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{listCmd.Flags()},
		},
		{
			name: "min-index",
			usage: `
              min-index specifies the smallest scene index to list.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{listCmd.Flags()},
		},
		{
			name: "field",
			usage: `
              field specifies a single field to use. If empty, all fields
              of the scene are used.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{framesCmd.Flags(), inspectCmd.Flags()},
		},
		{
			name: "mode",
			usage: `
              mode specifies how the frames of several fields are combined:
              "intersect" lists frames present for every field and "union"
              lists frames present for any field.`,
			defaultVal: "intersect",
			flagsets:   []*pflag.FlagSet{framesCmd.Flags()},
		},
		{
			name: "frame",
			usage: `
              frame specifies the frame to inspect. A negative value selects
              the first available frame.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{inspectCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies the path of the NetCDF file to create. It may
              be a blob storage location such as 's3://bucket/scene.nc'.`,
			shorthand:  "o",
			defaultVal: "scene.nc",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "fields",
			usage: `
              fields specifies the fields to export. If empty, all fields
              are exported.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "bucket",
			usage: `
              bucket specifies the blob storage bucket in the format
              'provider://name', where provider is one of file, mem, gs or s3.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{uploadCmd.Flags(), downloadCmd.Flags(), removeCmd.Flags()},
		},
		{
			name: "prefix",
			usage: `
              prefix specifies the key prefix of scenes stored in the bucket.`,
			defaultVal: "fluidscene",
			flagsets:   []*pflag.FlagSet{uploadCmd.Flags(), downloadCmd.Flags(), removeCmd.Flags()},
		},
		{
			name: "index",
			usage: `
              index specifies the index of the scene to download.`,
			shorthand:  "i",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{downloadCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("FLUIDSCENE")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(createCmd)
	Root.AddCommand(listCmd)
	Root.AddCommand(fieldsCmd)
	Root.AddCommand(framesCmd)
	Root.AddCommand(propsCmd)
	propsCmd.AddCommand(propsSetCmd)
	propsCmd.AddCommand(propsLoadCmd)
	Root.AddCommand(inspectCmd)
	Root.AddCommand(exportCmd)
	Root.AddCommand(uploadCmd)
	Root.AddCommand(downloadCmd)
	Root.AddCommand(removeCmd)
	Root.AddCommand(slugCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "fluidscene",
	Short: "A store for fluid simulation scenes.",
	Long: `FluidScene records fluid simulation runs as scenes: directories holding
one compressed array file per field and frame together with a JSON document
of simulation properties. Use the subcommands specified below to create,
list, inspect, export and mirror scenes.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'FLUIDSCENE_var' where 'var' is the
name of the variable to be set, with hyphens replaced by underscores.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogger(cmd.ErrOrStderr())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of FluidScene.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "FluidScene v%s\n", fluidscene.Version)
	},
	DisableAutoGenTag: true,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create new scenes",
	Long: `create allocates new scenes in the directory and category given by
--dir and --category, creates their directories, copies the files given
by --src into each scene, and prints the paths of the new scenes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return CreateScenes(cmd.Context(), cmd.OutOrStdout(),
			Cfg.GetString("dir"),
			Cfg.GetString("category"),
			Cfg.GetInt("count"),
			cast.ToStringSlice(Cfg.Get("src")),
		)
	},
	DisableAutoGenTag: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenes",
	Long: `list prints the paths of the scenes in the directory and category
given by --dir and --category in order of increasing index.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ListScenes(cmd.OutOrStdout(),
			Cfg.GetString("dir"),
			Cfg.GetString("category"),
			Cfg.GetInt("min-index"),
			Cfg.GetInt("max"),
		)
	},
	DisableAutoGenTag: true,
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <scene>",
	Short: "List the fields of a scene",
	Long:  "fields prints the names of the fields stored in the scene directory.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Fields(cmd.OutOrStdout(), args[0])
	},
	DisableAutoGenTag: true,
}

var framesCmd = &cobra.Command{
	Use:   "frames <scene>",
	Short: "List the frames of a scene",
	Long: `frames prints the frames stored for --field, or, if no field is given,
the frames of all fields combined as specified by --mode.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Frames(cmd.OutOrStdout(), args[0], Cfg.GetString("field"), Cfg.GetString("mode"))
	},
	DisableAutoGenTag: true,
}

var propsCmd = &cobra.Command{
	Use:   "props <scene>",
	Short: "Print the properties of a scene",
	Long:  "props prints the properties document of the scene.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return PrintProperties(cmd.OutOrStdout(), args[0])
	},
	DisableAutoGenTag: true,
}

var propsSetCmd = &cobra.Command{
	Use:   "set <scene> <key> <value>",
	Short: "Set a property of a scene",
	Long: `set stores a single property in the properties document of the scene.
The value is interpreted as JSON if possible and as a string otherwise.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return SetProperty(args[0], args[1], args[2])
	},
	DisableAutoGenTag: true,
}

var propsLoadCmd = &cobra.Command{
	Use:   "load <scene> <file.toml>",
	Short: "Load properties from a TOML file",
	Long: `load merges the parameters in a TOML file into the properties
document of the scene. Existing properties with the same names are replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return LoadProperties(cmd.Context(), args[0], args[1])
	},
	DisableAutoGenTag: true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <scene>",
	Short: "Print statistics of scene fields",
	Long: `inspect prints the shape, minimum, maximum, mean and Euclidean norm of
the fields of a scene at --frame, together with a fingerprint of their
contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Inspect(cmd.OutOrStdout(), args[0], Cfg.GetString("field"), Cfg.GetInt("frame"))
	},
	DisableAutoGenTag: true,
}

var exportCmd = &cobra.Command{
	Use:   "export <scene>",
	Short: "Export a scene to NetCDF",
	Long: `export writes the frames common to the selected fields of a scene to
the NetCDF file given by --output. Each field becomes a variable with a
leading frame dimension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Export(cmd.Context(), args[0], Cfg.GetString("output"), cast.ToStringSlice(Cfg.Get("fields")))
	},
	DisableAutoGenTag: true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <scene>",
	Short: "Copy a scene to blob storage",
	Long:  "upload copies every file of a scene to the bucket given by --bucket.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Upload(cmd.Context(), cmd.OutOrStdout(), args[0], Cfg.GetString("bucket"), Cfg.GetString("prefix"))
	},
	DisableAutoGenTag: true,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Copy a scene from blob storage",
	Long: `download copies the scene with the given --category and --index from
the bucket given by --bucket into --dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Download(cmd.Context(), cmd.OutOrStdout(),
			Cfg.GetString("bucket"),
			Cfg.GetString("prefix"),
			Cfg.GetString("dir"),
			Cfg.GetString("category"),
			Cfg.GetInt("index"),
		)
	},
	DisableAutoGenTag: true,
}

var removeCmd = &cobra.Command{
	Use:   "remove <scene>",
	Short: "Delete a scene",
	Long: `remove deletes a scene directory. If --bucket is given, the copy of
the scene stored in the bucket is deleted as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Remove(cmd.Context(), args[0], Cfg.GetString("bucket"), Cfg.GetString("prefix"))
	},
	DisableAutoGenTag: true,
}

var slugCmd = &cobra.Command{
	Use:   "slug <text>...",
	Short: "Print the category name for a text",
	Long:  "slug prints the category directory name that create would use for the given text.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), fluidscene.Slugify(strings.Join(args, " ")))
	},
	DisableAutoGenTag: true,
}
