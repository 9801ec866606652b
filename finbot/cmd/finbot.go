// Command-line entrypoint for talking to the assistant without the HTTP
// surface. Useful for poking at the memory pipeline locally.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"finbot/finbot/config"
	"finbot/finbot/controllers"
	"finbot/finbot/services/memory"
	"finbot/finbot/services/nlp"
	"finbot/finbot/sources/psql"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/utils/color"
	"finbot/finbot/utils/logging"

	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	args := os.Args[1:]
	if len(args) < 2 || args[0] != "connect" {
		fmt.Println("finbot CLI usage:")
		fmt.Println("  finbot connect <provider_user_id>   # Open a new session for this user")
		os.Exit(1)
	}
	providerID := args[1]

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		fmt.Println(color.ColorError("database connection error: " + err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	sessionDAO := dao.NewSessionDAO(db.DB)
	turnDAO := dao.NewChatTurnDAO(db.DB)

	user, err := userDAO.GetUserByProviderID(ctx, providerID)
	if err != nil {
		fmt.Println(color.ColorError("unknown user: " + providerID))
		os.Exit(1)
	}

	session, err := sessionDAO.CreateSession(ctx, user.ID)
	if err != nil {
		fmt.Println(color.ColorError("session creation failed: " + err.Error()))
		os.Exit(1)
	}

	backend := nlp.NewScriptBackend(cfg.Assistant.PythonBin, cfg.Assistant.QueryScript)
	summarizer := nlp.NewScriptSummarizer(cfg.Assistant.PythonBin, cfg.Assistant.SummaryScript)
	resolver := memory.NewResolver(sessionDAO, summarizer)
	accumulator := memory.NewAccumulator(sessionDAO, turnDAO, summarizer,
		cfg.Assistant.SummaryThreshold, cfg.Assistant.TitleWords)
	chatCtrl := controllers.NewChatController(userDAO, sessionDAO, turnDAO, backend, resolver, accumulator)

	logging.AppLogger.Info("finbot CLI session started",
		zap.String("session_id", session.ID.String()),
		zap.String("provider_id", providerID),
	)

	fmt.Println(color.ColorInfo("Connected. Session: " + session.ID.String()))
	fmt.Println("Ask a banking question, or ask about earlier conversations.")
	fmt.Println("Type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.ColorPrompt("finbot> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			fmt.Println("Goodbye!")
			break
		}
		if line == "" {
			continue
		}

		answer, err := chatCtrl.AskQuery(context.Background(), providerID, session.ID, line)
		if err != nil {
			fmt.Println(color.ColorError("error: " + err.Error()))
			continue
		}
		fmt.Println(color.ColorAnswer(answer.Response))
		fmt.Println()
	}
}
