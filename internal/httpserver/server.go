package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"Campus_QA/config"
)

type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func New(conf config.HTTPServer, handler http.Handler) *Server {
	return &Server{
		server: &http.Server{
			Handler:      handler,
			ReadTimeout:  conf.ReadTimeout,
			WriteTimeout: conf.WriteTimeout,
			Addr:         fmt.Sprintf("%v:%v", conf.BindAddress, conf.BindPort),
		},
		shutdownTimeout: conf.ShutdownTimeout,
	}
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Run 阻塞到 ctx 结束或监听失败，ctx 结束后在超时内优雅关闭
func (s *Server) Run(ctx context.Context) error {
	log.Println("[HTTPSERVER] listening on:", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Println("[HTTPSERVER] http server error:", err)
		}
		return err
	case <-ctx.Done():
	}

	log.Println("[SHUTDOWN] http server shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
