package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Archiver stores a copy of a note somewhere queryable.
type Archiver interface {
	Archive(ctx context.Context, note *ResearchNote) error
}

// Recorder writes the note file and then archives it. Archive failures are
// logged; the file is the source of truth.
type Recorder struct {
	files   *FileSaver
	archive Archiver
}

func NewRecorder(files *FileSaver, archive Archiver) *Recorder {
	if files == nil {
		files = NewFileSaver("")
	}
	return &Recorder{files: files, archive: archive}
}

// Save returns a confirmation naming the file, or an error message. It never
// fails outright so the model can relay the outcome.
func (r *Recorder) Save(ctx context.Context, topic, content string) string {
	path, err := r.files.Write(topic, content)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("save research failed")
		return fmt.Sprintf("Error saving research: %v", err)
	}

	if r.archive != nil {
		note := &ResearchNote{
			Topic:     topic,
			Content:   content,
			Sources:   ExtractSources(content),
			FilePath:  path,
			CreatedAt: time.Now().UTC(),
		}
		if err := r.archive.Archive(ctx, note); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("archive research note failed")
		}
	}

	log.Info().Str("topic", topic).Str("path", path).Msg("research saved")
	return fmt.Sprintf("Research saved successfully to: %s", path)
}
