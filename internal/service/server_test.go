package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/stem"
)

func runRequests(t *testing.T, s *Server, reqs []Request) []Response {
	t.Helper()

	var in bytes.Buffer
	for _, r := range reqs {
		raw, err := json.Marshal(r)
		require.NoError(t, err)
		in.WriteString(base64.StdEncoding.EncodeToString(raw))
		in.WriteByte(',')
	}

	var out bytes.Buffer
	require.NoError(t, s.Run(&in, &out))

	var responses []Response
	remaining := out.Bytes()
	for len(remaining) > 0 {
		i := bytes.IndexByte(remaining, ',')
		if i < 0 {
			break
		}
		frame := remaining[:i]
		remaining = remaining[i+1:]

		decoded, err := base64.StdEncoding.DecodeString(string(frame))
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal(decoded, &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServerNewIndexAssignsDenseHandles(t *testing.T) {
	s := NewServer(stem.Identity, "1")
	resp := runRequests(t, s, []Request{
		{MessageID: 1, Payload: RequestPayload{Type: ActionNewIndex}},
		{MessageID: 2, Payload: RequestPayload{Type: ActionNewIndex}},
	})
	require.Len(t, resp, 2)
	require.Equal(t, ResponseNewIndex, resp[0].Payload.Type)
	require.Equal(t, uint32(0), resp[0].Payload.IndexID)
	require.Equal(t, uint32(1), resp[1].Payload.IndexID)
}

func TestServerAddRecordThenBuildIndexThenGetFiles(t *testing.T) {
	s := NewServer(stem.Identity, "1")
	url := "/a"
	resp := runRequests(t, s, []Request{
		{MessageID: 1, Payload: RequestPayload{Type: ActionNewIndex}},
		{MessageID: 2, Payload: RequestPayload{
			Type: ActionAddRecord, IndexID: 0,
			URL: &url, Content: "hello world", Language: "en",
		}},
		{MessageID: 3, Payload: RequestPayload{Type: ActionBuildIndex, IndexID: 0}},
		{MessageID: 4, Payload: RequestPayload{Type: ActionGetFiles, IndexID: 0}},
	})
	require.Len(t, resp, 4)
	require.Equal(t, ResponseAddedFile, resp[1].Payload.Type)
	require.Equal(t, "/a", resp[1].Payload.PageURL)
	require.Equal(t, ResponseBuildIndex, resp[2].Payload.Type)
	require.Equal(t, ResponseGetFiles, resp[3].Payload.Type)
	require.NotEmpty(t, resp[3].Payload.Files)

	var hasEntry bool
	for _, f := range resp[3].Payload.Files {
		if f.Path == "pagefind-entry.json" {
			hasEntry = true
		}
	}
	require.True(t, hasEntry)
}

func TestServerWriteFilesWritesToDisk(t *testing.T) {
	out := t.TempDir()
	s := NewServer(stem.Identity, "1")
	url := "/a"
	resp := runRequests(t, s, []Request{
		{MessageID: 1, Payload: RequestPayload{Type: ActionNewIndex}},
		{MessageID: 2, Payload: RequestPayload{
			Type: ActionAddRecord, IndexID: 0,
			URL: &url, Content: "hello world", Language: "en",
		}},
		{MessageID: 3, Payload: RequestPayload{
			Type: ActionWriteFiles, IndexID: 0, OutputPath: &out,
		}},
	})
	require.Len(t, resp, 3)
	require.Equal(t, ResponseWriteFiles, resp[2].Payload.Type)

	_, err := os.Stat(filepath.Join(out, "pagefind-entry.json"))
	require.NoError(t, err)
}

func TestServerUnknownIndexIDReturnsError(t *testing.T) {
	s := NewServer(stem.Identity, "1")
	resp := runRequests(t, s, []Request{
		{MessageID: 1, Payload: RequestPayload{Type: ActionBuildIndex, IndexID: 99}},
	})
	require.Len(t, resp, 1)
	require.Equal(t, ResponseError, resp[0].Payload.Type)
	require.NotEmpty(t, resp[0].Payload.Message)
}

func TestServerDeleteIndexRemovesHandle(t *testing.T) {
	s := NewServer(stem.Identity, "1")
	resp := runRequests(t, s, []Request{
		{MessageID: 1, Payload: RequestPayload{Type: ActionNewIndex}},
		{MessageID: 2, Payload: RequestPayload{Type: ActionDeleteIndex, IndexID: 0}},
		{MessageID: 3, Payload: RequestPayload{Type: ActionBuildIndex, IndexID: 0}},
	})
	require.Len(t, resp, 3)
	require.Equal(t, ResponseDeleted, resp[1].Payload.Type)
	require.Equal(t, ResponseError, resp[2].Payload.Type)
}
