// Package service implements pagefind's stdio IPC surface: a length-framed
// (by trailing comma, base64-encoded JSON) request/response protocol that
// lets a host process (bindings, editors, build tools) drive indexing
// without shelling out per operation. One Server instance holds every
// index a session has created, keyed by a dense handle returned from
// NewIndex.
package service

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/pagefind-go/pagefind/internal/fossick"
	"github.com/pagefind-go/pagefind/internal/stem"
)

// Server holds every index created during a session, dispatching one
// request at a time (the search core's decode/search state is not safe
// for concurrent use, so requests are processed strictly sequentially,
// matching spec.md §5's serialization requirement).
type Server struct {
	Stemmer stem.Stemmer
	Version string

	mu      sync.Mutex
	indexes map[uint32]*Index
	nextID  uint32
}

// NewServer returns a Server ready to process requests.
func NewServer(stemmer stem.Stemmer, version string) *Server {
	if stemmer == nil {
		stemmer = stem.Default
	}
	return &Server{
		Stemmer: stemmer,
		Version: version,
		indexes: make(map[uint32]*Index),
	}
}

// Run reads requests from in and writes responses to out until in is
// exhausted, processing one request at a time.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	reader := NewFrameReader(in)
	writer := NewFrameWriter(out)

	for {
		req, err := reader.ReadRequest()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("service: read request: %w", err)
		}

		resp := s.handle(req)
		if err := writer.WriteResponse(resp); err != nil {
			return err
		}
	}
}

func (s *Server) handle(req Request) Response {
	payload, err := s.dispatch(req.Payload)
	if err != nil {
		log.Printf("service: message %d: %v", req.MessageID, err)
		payload = ResponsePayload{Type: ResponseError, Message: err.Error()}
	}
	return Response{MessageID: req.MessageID, Payload: payload}
}

func (s *Server) dispatch(p RequestPayload) (ResponsePayload, error) {
	switch p.Type {
	case ActionNewIndex:
		return s.newIndex(p.Config), nil

	case ActionAddFile:
		idx, err := s.index(p.IndexID)
		if err != nil {
			return ResponsePayload{}, err
		}
		data, err := idx.AddFile(p.FilePath, p.URL, p.FileContents)
		if err != nil {
			return ResponsePayload{}, err
		}
		return indexedFileResponse(data), nil

	case ActionAddRecord:
		idx, err := s.index(p.IndexID)
		if err != nil {
			return ResponsePayload{}, err
		}
		if p.URL == nil {
			return ResponsePayload{}, fmt.Errorf("service: add_record: url is required")
		}
		data := idx.AddRecord(*p.URL, p.Content, p.Language, p.Meta, p.Filters, p.Sort)
		return indexedFileResponse(data), nil

	case ActionAddDir:
		idx, err := s.index(p.IndexID)
		if err != nil {
			return ResponsePayload{}, err
		}
		glob := ""
		if p.Glob != nil {
			glob = *p.Glob
		}
		count, err := idx.AddDir(p.Path, glob)
		if err != nil {
			return ResponsePayload{}, err
		}
		return ResponsePayload{Type: ResponseIndexedDir, PageCount: uint32(count)}, nil

	case ActionBuildIndex:
		idx, err := s.index(p.IndexID)
		if err != nil {
			return ResponsePayload{}, err
		}
		if _, err := idx.Build(); err != nil {
			return ResponsePayload{}, err
		}
		return ResponsePayload{Type: ResponseBuildIndex}, nil

	case ActionWriteFiles:
		idx, err := s.index(p.IndexID)
		if err != nil {
			return ResponsePayload{}, err
		}
		outputPath := "public/pagefind"
		if p.OutputPath != nil {
			outputPath = *p.OutputPath
		}
		resolved, err := idx.WriteFiles(outputPath)
		if err != nil {
			return ResponsePayload{}, err
		}
		return ResponsePayload{Type: ResponseWriteFiles, BundlePath: resolved}, nil

	case ActionGetFiles:
		idx, err := s.index(p.IndexID)
		if err != nil {
			return ResponsePayload{}, err
		}
		files, err := idx.GetFiles()
		if err != nil {
			return ResponsePayload{}, err
		}
		return ResponsePayload{Type: ResponseGetFiles, Files: files}, nil

	case ActionDeleteIndex:
		s.deleteIndex(p.IndexID)
		return ResponsePayload{Type: ResponseDeleted}, nil

	default:
		return ResponsePayload{}, fmt.Errorf("service: unknown action %q", p.Type)
	}
}

func (s *Server) newIndex(cfg *NewIndexConfig) ResponsePayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.indexes[id] = newIndex(cfg, s.Stemmer, s.Version)
	return ResponsePayload{Type: ResponseNewIndex, IndexID: id}
}

func (s *Server) index(id uint32) (*Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexes[id]
	if !ok {
		return nil, fmt.Errorf("service: no such index %d", id)
	}
	return idx, nil
}

func (s *Server) deleteIndex(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, id)
}

func indexedFileResponse(data fossick.Data) ResponsePayload {
	return ResponsePayload{
		Type:          ResponseAddedFile,
		PageWordCount: uint32(len(data.Occurrences)),
		PageURL:       data.URL,
		PageMeta:      data.Parse.Meta,
	}
}
