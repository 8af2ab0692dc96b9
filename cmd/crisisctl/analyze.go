package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matthewbaird/crisis/internal/engine"
	"github.com/matthewbaird/crisis/internal/types"
)

type analyzeOutput struct {
	Result      types.AnalysisResult     `json:"result"`
	Escalations []types.EscalationAction `json:"escalation_actions"`
	Response    *types.ResponseBundle    `json:"response,omitempty"`
}

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var (
		audience string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [TEXT...]",
		Short: "Analyze text and print the assessment",
		Long:  `Analyze the given text, or standard input when no text is given, and print severity, categories, factors and escalation tiers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(b)
			}

			aud := types.Audience(audience)
			if aud != "" && !aud.Valid() {
				return fmt.Errorf("audience must be seeker or helper, got %q", audience)
			}

			cat, _, err := resolveCatalog(cmd.Context(), v)
			if err != nil {
				return err
			}
			eng := engine.New(cat, engine.WithMaxTextLength(v.GetInt("max_text_length")))

			out := analyzeOutput{Result: eng.Analyze(text)}
			out.Escalations = eng.EscalationActions(out.Result)
			if aud != "" {
				b, err := eng.Response(out.Result, aud)
				if err != nil {
					return err
				}
				out.Response = &b
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printAnalysis(w, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&audience, "audience", "", "also render guidance for seeker or helper")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printAnalysis(w io.Writer, out analyzeOutput) {
	r := out.Result
	fmt.Fprintf(w, "severity:    %s\n", r.SeverityLevel)
	fmt.Fprintf(w, "confidence:  %d\n", r.Confidence)
	fmt.Fprintf(w, "escalation:  %t\n", r.EscalationRequired)
	fmt.Fprintf(w, "emergency:   %t\n", r.EmergencyServices)
	if len(r.DetectedCategories) > 0 {
		fmt.Fprintf(w, "categories:  %s\n", joinStrings(r.DetectedCategories))
	}
	for _, ind := range r.Details.TriggeredIndicators {
		fmt.Fprintf(w, "  matched %q (%s, %s)\n", ind.Keyword, ind.Category, ind.Severity)
	}
	if len(r.RiskFactors) > 0 {
		fmt.Fprintf(w, "risk:        %s\n", joinStrings(r.RiskFactors))
	}
	if len(r.ProtectiveFactors) > 0 {
		fmt.Fprintf(w, "protective:  %s\n", joinStrings(r.ProtectiveFactors))
	}
	for _, a := range out.Escalations {
		fmt.Fprintf(w, "tier %-9s %s (%s)\n", a.Type, a.Description, a.Timeline)
	}
	for _, a := range r.RecommendedActions {
		fmt.Fprintf(w, "- %s\n", a)
	}
	if out.Response != nil {
		fmt.Fprintf(w, "\n%s\n", out.Response.Message)
	}
}

func joinStrings[S ~string](vs []S) string {
	parts := make([]string, len(vs))
	for i, s := range vs {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
