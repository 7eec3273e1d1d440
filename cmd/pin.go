package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/metadata"
	"github.com/raise3/raise3/pinata"
)

var pinClient *pinata.Client

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Pin files and JSON documents to IPFS through Pinata",
	Long: fmt.Sprintf(`Pin files and JSON documents to IPFS through Pinata. A Pinata JWT is
required, set it with %s or pinata.jwt in the config file.`, config.PINATA_JWT_VAR),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if err = rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		pinClient, err = pinata.NewClient(pinata.Config{
			JWT:    fileConfig.Pinata.JWT,
			APIURL: fileConfig.Pinata.APIURL,
		}, appLog)
		if err != nil {
			err = fmt.Errorf("%w: set %s", err, config.PINATA_JWT_VAR)
			appUI.Critical("%s", err)
			return err
		}
		return nil
	},
}

var pinFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Pin a file, e.g. a milestone proof",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		name := config.PinName
		if name == "" {
			name = filepath.Base(args[0])
		}
		stop := appUI.Spinner("pinning " + name)
		uri, err := pinClient.PinFile(cmd.Context(), name, f)
		stop()
		if err != nil {
			appUI.Error("Pinning failed: %s", err)
			return err
		}
		appUI.Success("%s", uri)
		return nil
	},
}

var pinJSONCmd = &cobra.Command{
	Use:   "json [path]",
	Short: "Pin a campaign or milestone metadata document",
	Long: `Pin a JSON document. The document is checked to be valid JSON and, with
--kind, to decode as campaign or milestone metadata before it is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := decodeDocument(content, pinKind)
		if err != nil {
			return err
		}
		name := config.PinName
		if name == "" {
			name = filepath.Base(args[0])
		}
		stop := appUI.Spinner("pinning " + name)
		uri, err := pinClient.PinJSON(cmd.Context(), name, doc)
		stop()
		if err != nil {
			appUI.Error("Pinning failed: %s", err)
			return err
		}
		appUI.Success("%s", uri)
		return nil
	},
}

var pinKind string

// decodeDocument returns the document as it will be pinned. Typed kinds
// are only validated; the raw document is pinned so unknown fields
// survive.
func decodeDocument(content []byte, kind string) (json.RawMessage, error) {
	if !json.Valid(content) {
		return nil, fmt.Errorf("not a valid json document")
	}
	var partial, err error
	switch kind {
	case "":
	case "campaign":
		partial, err = metadata.Decode(content, &metadata.CampaignMetadata{})
	case "milestone":
		partial, err = metadata.Decode(content, &metadata.MilestoneMetadata{})
	default:
		return nil, fmt.Errorf("unknown kind '%s', expected campaign or milestone", kind)
	}
	// readers skip mistyped fields, so refuse to publish them
	if err == nil {
		err = partial
	}
	if err != nil {
		return nil, fmt.Errorf("not %s metadata: %w", kind, err)
	}
	return json.RawMessage(content), nil
}

func init() {
	pinCmd.PersistentFlags().StringVarP(&config.PinName, "name", "n", "", "pin name shown in Pinata. Defaults to the file name")
	pinJSONCmd.Flags().StringVar(&pinKind, "kind", "", "validate the document as campaign or milestone metadata")
	pinCmd.AddCommand(pinFileCmd)
	pinCmd.AddCommand(pinJSONCmd)
	rootCmd.AddCommand(pinCmd)
}
