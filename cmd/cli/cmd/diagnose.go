// Package cmd - classify and modify commands
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"glazeworks/core/diagnosis"
	"glazeworks/core/modification"
	"glazeworks/core/types"
	"glazeworks/internal/errors"
	"glazeworks/internal/logging"
)

var (
	modType      string
	modIntensity string
	modSeverity  string
	modPath      string
	modColor     string
	modGlazeID   string
	modClayBody  string
	modFile      string
)

// classifyCmd grades a crazing photo
var classifyCmd = &cobra.Command{
	Use:   "classify <photo>",
	Short: "Grade the crazing severity of a photo",
	Long: `Grade a crazing photo with the offline classifier.

The offline classifier grades by file size only, so a given file always
receives the same severity.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

// modifyCmd recommends a recipe adjustment
var modifyCmd = &cobra.Command{
	Use:   "modify",
	Short: "Recommend a recipe adjustment",
	Long: `Look up the catalogued recipe adjustment for a modification type and
intensity. A severity may be given instead of an intensity, or a photo may
be graded first with --photo.

Examples:
  glazeworks modify --type reduce_boron --intensity slight --color celadon
  glazeworks modify --type reduce_expansion --severity severe --color shino
  glazeworks modify --type reduce_boron --photo ./crazed.jpg --color tenmoku`,
	Args: cobra.NoArgs,
	RunE: runModify,
}

func init() {
	f := modifyCmd.Flags()
	f.StringVarP(&modType, "type", "t", "", "modification type ("+joinTypes()+")")
	f.StringVarP(&modIntensity, "intensity", "i", "", "intensity (slight, moderate, aggressive)")
	f.StringVar(&modSeverity, "severity", "", "troubleshoot severity (mild, moderate, severe)")
	f.StringVar(&modFile, "photo", "", "grade this photo to choose the intensity")
	f.StringVar(&modPath, "path", "", "diagnostic path (photo, troubleshoot)")
	f.StringVarP(&modColor, "color", "c", "", "original glaze color")
	f.StringVar(&modGlazeID, "glaze-id", "", "catalogue glaze id")
	f.StringVar(&modClayBody, "clay-body", "", "clay body the glaze was fired on")
	_ = modifyCmd.MarkFlagRequired("type")
	modifyCmd.MarkFlagsMutuallyExclusive("intensity", "severity", "photo")
}

func runClassify(cmd *cobra.Command, args []string) error {
	asJSON, err := wantJSON()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(errors.TypeInput, "open photo", err)
	}
	defer f.Close()

	sev, n, err := diagnosis.ClassifyReader(f)
	if err != nil {
		return err
	}
	intensity := modification.SeverityToIntensity(sev)
	logging.Debug("photo classified", zap.String("file", args[0]), zap.Int64("bytes", n))

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, map[string]any{
			"file":      args[0],
			"bytes":     n,
			"severity":  sev,
			"intensity": intensity,
		})
	}
	printBox(w, "CRAZING DIAGNOSIS", []row{
		{"File", args[0]},
		{"Bytes", fmt.Sprint(n)},
		{"Severity", string(sev)},
		{"Suggested intensity", string(intensity)},
	})
	return nil
}

func runModify(cmd *cobra.Command, args []string) error {
	asJSON, err := wantJSON()
	if err != nil {
		return err
	}

	params := modification.Params{
		Type:          types.ModificationType(modType),
		Intensity:     types.ModificationIntensity(modIntensity),
		OriginalColor: modColor,
		GlazeID:       optional(modGlazeID),
		ClayBody:      optional(modClayBody),
	}

	var m types.Modification
	switch {
	case modFile != "":
		data, err := os.ReadFile(modFile)
		if err != nil {
			return errors.Wrap(errors.TypeInput, "read photo", err)
		}
		m, _, err = modification.Recommend(diagnosis.Input{Path: types.PathPhoto, Length: len(data)}, params)
		if err != nil {
			return err
		}
	case modSeverity != "":
		sev, ok := types.ParseSeverity(modSeverity)
		if !ok {
			return errors.Inputf("severity must be mild, moderate or severe, got %q", modSeverity)
		}
		m, _, err = modification.Recommend(diagnosis.Input{Path: types.PathTroubleshoot, Severity: sev}, params)
		if err != nil {
			return err
		}
	default:
		path, ok := types.ParseDiagnosticPath(modPath)
		if !ok {
			return errors.Inputf("path must be photo or troubleshoot, got %q", modPath)
		}
		params.Path = path
		m = modification.Build(params)
	}

	if m.Fallback {
		logging.Warn("no preset for modification",
			zap.String("preset_key", m.PresetKey),
			zap.Bool("fallback", true),
		)
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, m)
	}

	rows := []row{
		{"Type", string(m.Type)},
		{"Intensity", string(m.Intensity)},
		{"Path", string(m.Path)},
		{"Original color", m.OriginalColor},
		{"Preset", m.PresetKey},
		separator,
	}
	if len(m.Adjustments) == 0 {
		rows = append(rows, row{"Adjustments", "none catalogued"})
	}
	for _, a := range m.Adjustments {
		rows = append(rows, row{"  " + a.Oxide, strings.TrimPrefix(a.String(), a.Oxide+" ")})
	}
	printBox(w, "RECIPE MODIFICATION", rows)
	fmt.Fprintf(w, "\n%s\n", m.Description)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func joinTypes() string {
	names := make([]string, len(types.ModificationTypes))
	for i, t := range types.ModificationTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
