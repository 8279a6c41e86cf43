package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/verixiv/verixiv/internal/api"
)

var serveListen string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the VeriXiv API gateway",
	Long: `Start the HTTP gateway serving the VeriXiv API.

Endpoints:
  GET  /api/health    Service health
  POST /api/embed     Embed text
  POST /api/search    Similarity search by text
  POST /api/similar   Similar papers for an indexed paper
  POST /api/upsert    Index paper records
  GET  /api/paper     Look up a stored paper
  POST /api/analyze   Search plus scoring hints
  POST /api/pipeline  Full analysis pipeline
  POST /api/upload    Extract text from an uploaded PDF`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	svcs, err := buildServices()
	if err != nil {
		outputError("%v", err)
		return err
	}
	defer svcs.close()

	listen := svcs.cfg.Listen
	if serveListen != "" {
		listen = serveListen
	}

	server := api.NewServer(svcs.provider, svcs.index, svcs.search, svcs.orchestrator)

	log.Printf("verixiv gateway listening on %s", listen)
	log.Printf("embedding: %s (%s)", svcs.cfg.Embedding.URL, svcs.provider.ModelName())
	log.Printf("index: %s", svcs.cfg.Index.URL)

	if err := http.ListenAndServe(listen, server.Handler()); err != nil {
		outputError("server failed: %v", err)
		return err
	}
	return nil
}
