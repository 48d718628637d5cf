package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/voxscene/luaubridge/bridge"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for chunk execution",
	Long: `Start an HTTP server exposing the bridge.

Endpoints:
  POST /execute   {"source":"...","chunk_name":"..."} -> {"result":"..."}
  GET  /health    Health check`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

type executeFn func(ctx context.Context, source, chunkName string) (string, error)

type executeRequest struct {
	Source    string `json:"source"`
	ChunkName string `json:"chunk_name,omitempty"`
}

type executeResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int32  `json:"status,omitempty"`
}

func newExecuteHandler(execute executeFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req executeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, executeResponse{Error: "invalid request body"})
			return
		}
		if req.Source == "" {
			writeJSON(w, http.StatusBadRequest, executeResponse{Error: "source is required"})
			return
		}

		payload, err := execute(r.Context(), req.Source, req.ChunkName)
		if err != nil {
			var execErr *bridge.ExecutionError
			if errors.As(err, &execErr) {
				writeJSON(w, http.StatusUnprocessableEntity, executeResponse{
					Error:  execErr.Error(),
					Status: execErr.Status,
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, executeResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, executeResponse{Result: payload})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func runServe(cmd *cobra.Command, args []string) {
	port, _ := cmd.Flags().GetInt("port")

	b := newBridge(cmd)

	mux := http.NewServeMux()
	mux.HandleFunc("/execute", newExecuteHandler(b.Execute))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	addr := fmt.Sprintf(":%d", port)
	fmt.Fprintf(os.Stderr, "luaubridge listening on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
