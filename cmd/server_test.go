package cmd

import (
	"github.com/miekg/dns"
)

// Server represents simple DNS server.
type Server struct {
	Addr  string
	inner *dns.Server
}

// Close shuts down running DNS server instance.
func (s *Server) Close() {
	_ = s.inner.Shutdown()
}

// NewServer creates and starts new UDP DNS server instance.
func NewServer(f dns.HandlerFunc) *Server {
	ch := make(chan bool)
	s := &dns.Server{Net: "udp", Addr: "127.0.0.1:0", NotifyStartedFunc: func() { close(ch) }, Handler: f}

	go func() {
		if err := s.ListenAndServe(); err != nil {
			panic(err)
		}
	}()

	<-ch
	return &Server{inner: s, Addr: s.PacketConn.LocalAddr().String()}
}

func answeringServer() *Server {
	return NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		rr, _ := dns.NewRR(r.Question[0].Name + " IN A 127.0.0.1")
		ret.Answer = append(ret.Answer, rr)
		_ = w.WriteMsg(ret)
	})
}

func emptyServer() *Server {
	return NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetRcode(r, dns.RcodeNameError)
		_ = w.WriteMsg(ret)
	})
}
