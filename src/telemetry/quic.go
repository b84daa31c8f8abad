package telemetry

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"sync"
	"time"

	quic "github.com/quic-go/quic-go"
	"github.com/rs/zerolog"

	"liftsched/src/logger"
)

const (
	NextProto    = "liftsched-telemetry"
	viewerBuffer = 64
	closeCode    = 0x2468
)

// Server streams frames to QUIC viewers. Each viewer gets one
// unidirectional stream of newline delimited JSON frames.
type Server struct {
	listener *quic.Listener
	log      zerolog.Logger

	mu      sync.Mutex
	viewers map[*viewer]struct{}

	ready     chan struct{}
	readyOnce sync.Once
}

type viewer struct {
	conn   quic.Connection
	frames chan []byte
}

func Listen(addr string) (*Server, error) {
	tlsConf, err := generateTLSConfig()
	if err != nil {
		return nil, err
	}
	listener, err := quic.ListenAddr(addr, tlsConf, &quic.Config{KeepAlivePeriod: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telemetry listen %s: %w", addr, err)
	}
	return &Server{
		listener: listener,
		log:      logger.Component("telemetry"),
		viewers:  make(map[*viewer]struct{}),
		ready:    make(chan struct{}),
	}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Ready is closed once the first viewer has confirmed.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// Send queues frame for every viewer. Viewers that are not keeping up miss
// the frame.
func (s *Server) Send(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for v := range s.viewers {
		select {
		case v.frames <- frame:
		default:
		}
	}
}

// Serve accepts viewers until ctx is done or the server is closed.
func (s *Server) Serve(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("telemetry accept: %w", err)
		}
		s.log.Info().Str("viewer", conn.RemoteAddr().String()).Msg("Viewer connected")
		go s.handle(ctx, conn)
	}
}

func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) handle(ctx context.Context, conn quic.Connection) {
	defer conn.CloseWithError(closeCode, "bye")

	stream, err := conn.OpenUniStreamSync(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("viewer", conn.RemoteAddr().String()).Msg("Could not open viewer stream")
		return
	}
	// Streams are announced to the peer by their first frame.
	hello, _ := Encode(Message{Type: Hello, Data: NextProto, Timestamp: time.Now()})
	if _, err := stream.Write(hello); err != nil {
		return
	}

	v := &viewer{conn: conn, frames: make(chan []byte, viewerBuffer)}
	s.mu.Lock()
	s.viewers[v] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.viewers, v)
		s.mu.Unlock()
	}()

	go s.readConfirmations(ctx, conn)

	for {
		select {
		case <-ctx.Done():
			stream.Close()
			return
		case <-conn.Context().Done():
			return
		case frame := <-v.frames:
			if _, err := stream.Write(frame); err != nil {
				s.log.Warn().Err(err).Str("viewer", conn.RemoteAddr().String()).Msg("Viewer dropped")
				return
			}
		}
	}
}

func (s *Server) readConfirmations(ctx context.Context, conn quic.Connection) {
	for {
		stream, err := conn.AcceptUniStream(ctx)
		if err != nil {
			return
		}
		var msg Frame
		if err := json.NewDecoder(stream).Decode(&msg); err != nil {
			continue
		}
		if msg.Type == ClientConfirmed {
			s.readyOnce.Do(func() {
				s.log.Info().Str("viewer", conn.RemoteAddr().String()).Msg("Viewer confirmed")
				close(s.ready)
			})
		}
	}
}

// Viewer is the client side of a telemetry connection.
type Viewer struct {
	conn   quic.Connection
	stream quic.ReceiveStream
	reader *bufio.Reader
}

// Dial connects to a telemetry server and waits for its stream.
func Dial(ctx context.Context, addr string) (*Viewer, error) {
	tlsConf := &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{NextProto},
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, &quic.Config{MaxIdleTimeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telemetry dial %s: %w", addr, err)
	}
	stream, err := conn.AcceptUniStream(ctx)
	if err != nil {
		conn.CloseWithError(closeCode, "no stream")
		return nil, fmt.Errorf("telemetry accept stream: %w", err)
	}
	return &Viewer{conn: conn, stream: stream, reader: bufio.NewReader(stream)}, nil
}

// Next blocks until the next frame arrives.
func (v *Viewer) Next() (Frame, error) {
	line, err := v.reader.ReadBytes('\n')
	if err != nil {
		return Frame{}, err
	}
	var frame Frame
	if err := json.Unmarshal(line, &frame); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return frame, nil
}

// Confirm tells the server this viewer is ready.
func (v *Viewer) Confirm(ctx context.Context) error {
	stream, err := v.conn.OpenUniStreamSync(ctx)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(stream).Encode(Message{Type: ClientConfirmed, Timestamp: time.Now()}); err != nil {
		return err
	}
	return stream.Close()
}

func (v *Viewer) Close() error {
	return v.conn.CloseWithError(closeCode, "bye")
}

// Bare-bones self-signed TLS config, after the quic-go echo example.
func generateTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	template := x509.Certificate{SerialNumber: big.NewInt(1)}
	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{tlsCert},
		NextProtos:   []string{NextProto},
	}, nil
}
