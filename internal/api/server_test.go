package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/cyberforage/aprofile-scavenger/internal/config"
	"github.com/cyberforage/aprofile-scavenger/internal/decisionlog"
	"github.com/cyberforage/aprofile-scavenger/internal/runtime"
	"github.com/cyberforage/aprofile-scavenger/pkg/models"
	"github.com/cyberforage/aprofile-scavenger/pkg/peercontext"
	"github.com/cyberforage/aprofile-scavenger/pkg/peerproxy"
)

type testDialer struct{}

func (testDialer) Dial(ctx context.Context, addr models.Address) (peerproxy.Proxy, error) {
	return nil, nil
}

type ServerTestSuite struct {
	suite.Suite
	peers  *peercontext.Context
	rt     *runtime.Runtime
	server *Server
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.peers = peercontext.New()
	dir := s.T().TempDir()
	s.rt = runtime.New(config.Default(), s.peers, dir+"/global.dat", dir+"/local.dat", testDialer{})
	s.server = NewServer(s.rt, nil, "0")
}

func (s *ServerTestSuite) doRequest(method, path string, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.server.router.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) TestHealthCheck() {
	rec := s.doRequest(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestListPeers_EmptyDirectory() {
	rec := s.doRequest(http.MethodGet, "/api/v1/peers", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var peers []models.Peer
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &peers))
	assert.Empty(s.T(), peers)
}

func (s *ServerTestSuite) TestAnnouncePeer_RegistersInDirectory() {
	body, _ := json.Marshal(announcementRequest{
		Name: "P", Host: "10.0.0.2", Port: 9000, CPUStrength: 4.0, CPUCores: 2,
	})
	rec := s.doRequest(http.MethodPost, "/api/v1/discovery", body)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	_, err := s.peers.Get("P")
	require.NoError(s.T(), err)
}

func (s *ServerTestSuite) TestAnnouncePeer_MissingFieldsRejected() {
	body, _ := json.Marshal(map[string]string{"host": "10.0.0.2"})
	rec := s.doRequest(http.MethodPost, "/api/v1/discovery", body)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestGetProfile_ReturnsLookupKey() {
	rec := s.doRequest(http.MethodGet, "/api/v1/profile/sum?executor=P", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(s.T(), "sum", out["task"])
	assert.Equal(s.T(), "P", out["executor"])
}

func (s *ServerTestSuite) TestListDecisions_NoStoreReturnsEmptyList() {
	rec := s.doRequest(http.MethodGet, "/api/v1/decisions", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	var decisions []decisionlog.Decision
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &decisions))
	assert.Empty(s.T(), decisions)
}

func (s *ServerTestSuite) TestListDecisions_WithStoreReturnsRows() {
	dir := s.T().TempDir()
	db, err := decisionlog.Open(dir + "/decisions.db")
	require.NoError(s.T(), err)
	defer db.Close()
	store := decisionlog.NewStore(db)
	require.NoError(s.T(), store.RecordDecision(decisionlog.Decision{
		TaskName: "sum", Timestamp: time.Now(), Outcome: "remote",
	}, nil))

	server := NewServer(s.rt, store, "0")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/decisions?task=sum", nil)
	server.router.ServeHTTP(rec, req)

	require.Equal(s.T(), http.StatusOK, rec.Code)
	var decisions []decisionlog.Decision
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &decisions))
	require.Len(s.T(), decisions, 1)
	assert.Equal(s.T(), "sum", decisions[0].TaskName)
}

func (s *ServerTestSuite) TestListDecisions_InvalidLimitRejected() {
	rec := s.doRequest(http.MethodGet, "/api/v1/decisions?limit=nope", nil)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
