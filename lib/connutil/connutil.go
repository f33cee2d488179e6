package connutil

import (
	"flag"
	"log"
	"time"

	"github.com/gotmc/scpi"

	// Hardware transports available to every example program.
	_ "github.com/gotmc/scpi/driver/serial"
	_ "github.com/gotmc/scpi/driver/tcpip"
)

// Conn gathers the connection flags shared by the example programs.
type Conn struct {
	Resource string
	Timeout  time.Duration
	Baud     int
	Debug    bool
}

// AddFlags is to be called before [flag.Parse]. The given resource string is
// the hard-coded default used when -resource is not supplied.
func (c *Conn) AddFlags(defaultResource string) {
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	if c.Baud == 0 {
		c.Baud = 115200
	}

	flag.StringVar(&c.Resource, "resource", defaultResource, "VISA resource string for the instrument")
	flag.DurationVar(&c.Timeout, "timeout", c.Timeout, "transport read timeout")
	flag.IntVar(&c.Baud, "baud", c.Baud, "baud rate for ASRL resources")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "log every command and response")
}

// Setup is to be called after [flag.Parse]. It opens the session and returns
// a cleanup closure that releases it; the cleanup is safe to defer even when
// Setup fails.
func (c *Conn) Setup() (*scpi.Session, func(), error) {
	log.SetFlags(log.Lmicroseconds)
	log.Printf("resource = %s", c.Resource)

	opts := []scpi.Option{
		scpi.WithTimeout(c.Timeout),
		scpi.WithBaudRate(c.Baud),
	}
	if c.Debug {
		opts = append(opts, scpi.WithDebug())
	}
	sess, err := scpi.Open(c.Resource, opts...)
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		if err := sess.Close(); err != nil {
			log.Printf("error closing session: %s", err)
		}
	}
	return sess, cleanup, nil
}
