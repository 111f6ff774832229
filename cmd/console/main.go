package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		// Turns wait on the narrator
		Timeout: 3 * time.Minute,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	var gs *state.GameState
	var err error
	if raw := os.Getenv("GAME_ID"); raw != "" {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "Invalid GAME_ID: %v\n", parseErr)
			os.Exit(1)
		}
		gs, err = getGameState(client, cfg.APIBaseURL, id)
	} else {
		gs, err = createGameState(client, cfg.APIBaseURL, promptNewGame(bufio.NewReader(os.Stdin)))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, gs),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// promptNewGame asks for the few fields a new game needs. Blank answers keep the defaults.
func promptNewGame(in *bufio.Reader) handlers.CreateGameStateRequest {
	fmt.Println("Tạo nhân vật mới")
	req := handlers.CreateGameStateRequest{
		Character: state.Character{
			Name:       ask(in, "Tên nhân vật", "Vô Danh"),
			Gender:     ask(in, "Giới tính", "Nam"),
			Background: ask(in, "Xuất thân", "Một thiếu niên nghèo nơi sơn thôn"),
			Goal:       ask(in, "Mục tiêu", "Trường sinh bất tử"),
		},
		World: state.World{
			Setting: ask(in, "Bối cảnh thế giới", "Tu tiên giới hỗn loạn, tông môn tranh đấu"),
			Style:   ask(in, "Văn phong", "Tiên hiệp cổ điển"),
		},
	}
	if tiers := ask(in, "Hệ thống cảnh giới (phân tách bằng dấu phẩy)", ""); tiers != "" {
		for t := range strings.SplitSeq(tiers, ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.World.RealmSystem = append(req.World.RealmSystem, t)
			}
		}
	}
	return req
}

func ask(in *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := in.ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return def
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
