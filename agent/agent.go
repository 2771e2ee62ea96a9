// Package agent provides an interactive AI assistant that answers questions
// about the portfolio through function-calling tools.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Library dispatches a model function call to its implementation.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is one tool the assistant can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// NewLibrary builds the dispatcher for a set of functions.
func NewLibrary(functions []Function) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return &genai.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Response: map[string]any{
				"error": fmt.Sprintf("unknown function %s", call.Name),
			},
		}
	}
}

// NewDeclarations collects the declarations of a set of functions.
func NewDeclarations(functions []Function) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w       io.Writer
	r       *bufio.Reader
	library Library
	config  *genai.GenerateContentConfig
	chat    *genai.Chat
}

// New creates an Agent answering with the given tools. It takes an
// io.Writer for the agent's output (e.g., os.Stdout) and an io.Reader for
// user input (e.g., os.Stdin).
func New(w io.Writer, r io.Reader, tools []Function) *Agent {
	return &Agent{
		w:       w,
		r:       bufio.NewReader(r),
		library: NewLibrary(tools),
		config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(tools)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are the assistant for a personal investment portfolio.
			The user asks about held symbols, their value, daily moves and
			year-to-date rankings. Use the available tools to ground every
			figure in the actual portfolio data, never invent numbers.
			Amounts are US dollars.
		`}}},
		},
	}
}

// Start creates the chat session.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, model, a.config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends parts to the model and resolves function calls until a text
// response comes back.
func (a *Agent) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	resp, err := a.chat.Send(ctx, parts...)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the assistant")
	}
	part0 := resp.Candidates[0].Content.Parts[0]
	if part0.FunctionCall != nil {
		fresp := a.library(ctx, part0.FunctionCall)
		return a.Ask(ctx, &genai.Part{FunctionResponse: fresp})
	}
	return part0.Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the agent. Initial prompts
// are consumed before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to the portfolio assistant. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
