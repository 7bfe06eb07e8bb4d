package main

import (
	"ligerozk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var fAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run an HTTP API for proof generation and verification",
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	p, err := params(cmd)
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)
	router, err := service.New(p)
	if err != nil {
		return err
	}
	log.Info().Str("addr", fAddr).Str("field", p.Field).Msg("listening")
	return router.Run(fAddr)
}

func init() {
	serveCmd.Flags().StringVar(&fAddr, "addr", "0.0.0.0:8010", "listen address")
	rootCmd.AddCommand(serveCmd)
}
