package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/model"
)

var (
	resolveName     string
	resolveState    string
	resolveCity     string
	resolveHolder   string
	resolveAddrSrc  string
	resolveLastDate string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single owner name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		req := model.ResolutionRequest{
			BusinessName:       resolveName,
			State:              resolveState,
			City:               resolveCity,
			HolderNameOnRecord: resolveHolder,
			AddressSource:      resolveAddrSrc,
			LastActivityDate:   resolveLastDate,
		}

		resp := e.Pipeline.Run(ctx, req)

		zap.L().Info("resolution complete",
			zap.String("entity_type", string(resp.Resolution.EntityType)),
			zap.String("reason_code", resp.Resolution.ReasonCode),
			zap.Bool("needs_review", resp.Resolution.NeedsReview),
			zap.Float64("confidence", resp.Resolution.Confidence),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveName, "name", "", "owner or business name (required)")
	resolveCmd.Flags().StringVar(&resolveState, "state", "GA", "two-letter state code")
	resolveCmd.Flags().StringVar(&resolveCity, "city", "", "city hint for place lookup")
	resolveCmd.Flags().StringVar(&resolveHolder, "holder", "", "holder name on record")
	resolveCmd.Flags().StringVar(&resolveAddrSrc, "address-source", "", "address provenance label")
	resolveCmd.Flags().StringVar(&resolveLastDate, "last-activity", "", "last activity date (YYYY-MM-DD)")
	_ = resolveCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(resolveCmd)
}
