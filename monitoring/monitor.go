// Package monitoring turns a running simulation into a small web server so
// it can be observed and controlled from outside.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/mcusim/uartloop/firmware"
	"github.com/mcusim/uartloop/hw/irq"
	"github.com/mcusim/uartloop/hw/uart"
	"github.com/mcusim/uartloop/sim"
)

// Monitor exposes a simulation over HTTP.
type Monitor struct {
	engine     sim.Engine
	session    *firmware.Session
	components []sim.Component
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// rejected and a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server, "+
				"using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterSession registers the firmware session to report on.
func (m *Monitor) RegisterSession(s *firmware.Session) {
	m.session = s
}

// RegisterComponent registers a component to be monitored.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.components = append(m.components, c)
}

// StartServer starts the monitor as a web server. It returns the address
// the server listens on. If openBrowser is set, the default browser is
// pointed at the server.
func (m *Monitor) StartServer(openBrowser bool) (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.componentStatus)
	r.HandleFunc("/api/session", m.sessionSnapshot)
	r.HandleFunc("/api/resource", m.listResources)

	actualPort := ":0"
	if m.portNumber > 0 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		serveErr := http.Serve(listener, r)
		if serveErr != nil {
			panic(serveErr)
		}
	}()

	if openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
		}
	}

	return url, nil
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.engine.CurrentTime())
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) componentStatus(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	for _, c := range m.components {
		if c.Name() != name {
			continue
		}

		switch c := c.(type) {
		case *uart.Channel:
			writeJSON(w, c.CurrentStatus())
		case *irq.Controller:
			writeJSON(w, c.CurrentStatus())
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	w.WriteHeader(http.StatusNotFound)
}

func (m *Monitor) sessionSnapshot(w http.ResponseWriter, _ *http.Request) {
	if m.session == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, m.session.CurrentSnapshot())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rsp := resourceRsp{}

	if cpu, err := proc.CPUPercent(); err == nil {
		rsp.CPUPercent = cpu
	}

	if memInfo, err := proc.MemoryInfo(); err == nil {
		rsp.MemoryRSS = memInfo.RSS
	}

	writeJSON(w, rsp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
