package agent

import (
	"context"

	"google.golang.org/genai"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
)

// Tools exposes read-only portfolio queries as assistant functions.
func Tools(p *portfolio.Portfolio) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_symbols",
				Description: "Lists the ticker symbols held in the portfolio.",
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return respond(id, "list_symbols", map[string]any{"symbols": p.Holdings().Symbols()})
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "position",
				Description: "Returns the share count and dollar value of one symbol on a date.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbol": {Type: genai.TypeString, Description: "The ticker symbol."},
						"date":   {Type: genai.TypeString, Description: "ISO date YYYY-MM-DD, today when omitted."},
					},
					Required: []string{"symbol"},
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				symbol, _ := args["symbol"].(string)
				day := argDate(args)
				shares, _ := p.Holdings().Position(symbol, day)
				cash, err := p.ToCash(symbol, shares, day)
				if err != nil {
					return respondErr(id, "position", err)
				}
				return respond(id, "position", map[string]any{
					"symbol": symbol,
					"date":   day.String(),
					"shares": shares,
					"value":  cash,
				})
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "total_value",
				Description: "Returns the total dollar value of the portfolio on a date.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {Type: genai.TypeString, Description: "ISO date YYYY-MM-DD, today when omitted."},
					},
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				day := argDate(args)
				total, err := p.Value().Total(day)
				if err != nil {
					return respondErr(id, "total_value", err)
				}
				return respond(id, "total_value", map[string]any{"date": day.String(), "total": total})
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "daily_change",
				Description: "Returns the day-over-day dollar and percent change of the portfolio total on a date.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {Type: genai.TypeString, Description: "ISO date YYYY-MM-DD, today when omitted."},
					},
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				day := argDate(args)
				change, err := p.Value().DailyChange(day)
				if err != nil {
					return respondErr(id, "daily_change", err)
				}
				return respond(id, "daily_change", map[string]any{
					"date":       day.String(),
					"difference": change.Difference,
					"percent":    float64(change.Pct),
				})
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "rank",
				Description: "Ranks a date's total value and its daily change against every other day this year, rank 1 being the best.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {Type: genai.TypeString, Description: "ISO date YYYY-MM-DD, today when omitted."},
					},
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				day := argDate(args)
				r, err := p.Value().Rank(day, date.Range{})
				if err != nil {
					return respondErr(id, "rank", err)
				}
				return respond(id, "rank", map[string]any{
					"date":        day.String(),
					"value_rank":  r.Value,
					"change_rank": r.Change,
				})
			},
		},
	}
}

func argDate(args map[string]any) date.Date {
	if s, ok := args["date"].(string); ok {
		if day, err := date.Parse(s); err == nil {
			return day
		}
	}
	return date.Today()
}

func respond(id, name string, output map[string]any) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: output}
}

func respondErr(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}
