package main

import "fmt"

type Server struct {
	Addr string
}

func NewServer(addr string) *Server {
	return &Server{Addr: addr}
}

func (s *Server) Start() error {
	fmt.Println("starting", s.Addr)
	return nil
}

func main() {
	srv := NewServer(":8080")
	if err := srv.Start(); err != nil {
		panic(err)
	}
}
