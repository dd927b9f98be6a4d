package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
	"github.com/gorilla/mux"
)

const contentTypeZstd = "application/zstd"

func HandleExportSnapshot(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID := mux.Vars(r)["communityID"]

		s, err := l.ExportCommunity(r.Context(), communityID)
		if err != nil {
			writeLedgerError(w, "export snapshot", err)
			return
		}

		if r.URL.Query().Get("format") == "zst" {
			w.Header().Set("Content-Type", contentTypeZstd)
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json.zst", communityID))
			if err := snapshot.WriteArchive(w, s); err != nil {
				log.Error("failed to write snapshot archive: %v", err)
			}
			return
		}

		data, err := snapshot.Encode(s)
		if err != nil {
			log.Error("failed to encode snapshot: %v", err)
			http.Error(w, "Failed to encode snapshot", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			log.Error("failed to write snapshot: %v", err)
		}
	}
}

func HandleImportSnapshot(l *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID := mux.Vars(r)["communityID"]

		var s *snapshot.Snapshot
		var err error
		if r.Header.Get("Content-Type") == contentTypeZstd {
			s, err = snapshot.ReadArchive(r.Body)
		} else {
			var data []byte
			data, err = io.ReadAll(r.Body)
			if err == nil {
				s, err = snapshot.Decode(data)
			}
		}
		if err != nil {
			if snapshot.IsInvalidFormat(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("failed to read snapshot: %v", err)
			http.Error(w, "Failed to read snapshot", http.StatusBadRequest)
			return
		}

		result, err := l.ImportCommunity(r.Context(), communityID, s)
		if err != nil {
			writeLedgerError(w, "import snapshot", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Error("failed to encode import result: %v", err)
			http.Error(w, "Failed to encode import result", http.StatusInternalServerError)
			return
		}
	}
}
