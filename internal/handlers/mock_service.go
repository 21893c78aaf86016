package handlers

import (
	"context"
	"net/http"
	"time"

	"pumpbank/internal/models"
	"pumpbank/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockPump struct {
	profileRec   models.ConfigRecord
	profileFound bool
	profileErr   error

	cycleChg    service.ChangedValue
	cycleErr    error
	lastCycleMs uint64
	cycleCalls  int

	intervalChg    service.ChangedValue
	intervalErr    error
	lastIntervalMs uint64
	intervalCalls  int

	checkpointRec   models.ConfigRecord
	checkpointErr   error
	checkpointCalls int

	resetRec   models.ConfigRecord
	resetErr   error
	resetCalls int

	pauseRet    bool
	pauseCalls  int
	resumeRet   bool
	resumeCalls int
}

func (m *mockPump) Profile(ctx context.Context) (models.ConfigRecord, bool, error) {
	return m.profileRec, m.profileFound, m.profileErr
}
func (m *mockPump) SetCycleTime(ctx context.Context, ms uint64) (service.ChangedValue, error) {
	m.cycleCalls++
	m.lastCycleMs = ms
	return m.cycleChg, m.cycleErr
}
func (m *mockPump) SetInterval(ms uint64) (service.ChangedValue, error) {
	m.intervalCalls++
	m.lastIntervalMs = ms
	return m.intervalChg, m.intervalErr
}
func (m *mockPump) Checkpoint(ctx context.Context) (models.ConfigRecord, error) {
	m.checkpointCalls++
	return m.checkpointRec, m.checkpointErr
}
func (m *mockPump) Reset(ctx context.Context) (models.ConfigRecord, error) {
	m.resetCalls++
	return m.resetRec, m.resetErr
}
func (m *mockPump) Pause(ctx context.Context) bool {
	m.pauseCalls++
	return m.pauseRet
}
func (m *mockPump) Resume(ctx context.Context) bool {
	m.resumeCalls++
	return m.resumeRet
}

type mockMonitoring struct {
	state models.Snapshot
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.Snapshot, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.PumpEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PumpEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
