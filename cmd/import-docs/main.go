// Command import-docs builds the knowledge base: it crawls university
// web pages and extracts PDF handbooks, chunks the text, embeds every
// chunk and stores it in the configured vector store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/vauassist/university-rag/internal/chunker"
	"github.com/vauassist/university-rag/internal/config"
	"github.com/vauassist/university-rag/internal/db"
	"github.com/vauassist/university-rag/internal/embedding"
	"github.com/vauassist/university-rag/internal/logging"
	"github.com/vauassist/university-rag/internal/pdfext"
	"github.com/vauassist/university-rag/internal/rag"
	"github.com/vauassist/university-rag/internal/scrape"
	chromemstore "github.com/vauassist/university-rag/internal/store/chromem"
	pgstore "github.com/vauassist/university-rag/internal/store/pgvector"
)

type importer struct {
	store    rag.VectorStore
	embedder *embedding.GeminiEmbedder
	chunks   *chunker.SentenceChunker
	logger   *zap.Logger
}

func main() {
	_ = godotenv.Load()

	facultyFlag := flag.String("faculty", "", "faculty tag for the imported content (FAS, FBS, FTS); empty for university-wide content")
	fromPDFs := flag.String("from-pdfs", "", "directory of PDF handbooks to import")
	fromURL := flag.String("from-url", "", "base URL to crawl (e.g. https://fts.vau.ac.lk/)")
	maxPages := flag.Int("max-pages", 50, "page limit for the crawl")
	rebuild := flag.Bool("rebuild", false, "wipe the collection before importing")
	flag.Parse()

	if *fromPDFs == "" && *fromURL == "" {
		log.Fatal("use at least one source: --from-pdfs or --from-url")
	}

	ctx := context.Background()
	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Fatal("failed to init genai client", zap.Error(err))
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open vector store", zap.Error(err))
	}
	defer store.Close()

	imp := &importer{
		store:    store,
		embedder: embedding.NewGemini(genaiClient),
		chunks:   chunker.NewSentenceChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:   logger,
	}

	if *rebuild {
		logger.Warn("rebuilding: wiping the collection")
		if err := store.Reset(ctx); err != nil {
			logger.Fatal("failed to reset store", zap.Error(err))
		}
	}

	faculty := rag.Faculty(strings.ToUpper(strings.TrimSpace(*facultyFlag)))

	if *fromPDFs != "" {
		if err := imp.importPDFs(ctx, *fromPDFs, faculty); err != nil {
			logger.Fatal("pdf import failed", zap.Error(err))
		}
	}

	if *fromURL != "" {
		if err := imp.importSite(ctx, *fromURL, faculty, *maxPages); err != nil {
			logger.Fatal("site import failed", zap.Error(err))
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		logger.Fatal("failed to count documents", zap.Error(err))
	}
	logger.Info("import finished", zap.Int("documents", count))
}

func newStore(ctx context.Context, cfg *config.Config) (rag.VectorStore, error) {
	switch cfg.VectorDBType {
	case config.StoreChromem:
		return chromemstore.New(cfg.ChromemPath)
	case config.StorePgvector:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pgstore.New(pool), nil
	default:
		return nil, fmt.Errorf("unknown vector store type %q", cfg.VectorDBType)
	}
}

func (imp *importer) importPDFs(ctx context.Context, root string, faculty rag.Faculty) error {
	imp.logger.Info("importing handbooks", zap.String("path", root), zap.String("faculty", string(faculty)))

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".pdf") {
			return nil
		}

		text, err := pdfext.Extract(path)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}

		title := filenameToTitle(path)
		sourceURL := "handbook://" + filepath.Base(path)
		return imp.chunkAndStore(ctx, faculty, rag.SourceHandbook, title, sourceURL, text)
	})
}

func (imp *importer) importSite(ctx context.Context, baseURL string, faculty rag.Faculty, maxPages int) error {
	sourceType := rag.SourceWeb
	if faculty != "" {
		sourceType = rag.SourceFacultyWeb
	}

	crawler := scrape.NewCrawler(maxPages, imp.logger)
	pages, err := crawler.Crawl(ctx, baseURL)
	if err != nil {
		return err
	}

	for _, page := range pages {
		if err := imp.chunkAndStore(ctx, faculty, sourceType, page.Title, page.URL, page.Text); err != nil {
			imp.logger.Warn("failed to store page", zap.String("url", page.URL), zap.Error(err))
		}
	}
	return nil
}

func (imp *importer) chunkAndStore(ctx context.Context, faculty rag.Faculty, sourceType rag.SourceType, title, sourceURL, text string) error {
	parts := imp.chunks.Chunk(text)
	if len(parts) == 0 {
		return nil
	}

	docs := make([]rag.Document, 0, len(parts))
	for i, content := range parts {
		chunkTitle := title
		if len(parts) > 1 {
			chunkTitle = fmt.Sprintf("%s (part %d)", title, i+1)
		}

		vec, err := imp.embedder.Embed(ctx, content)
		if err != nil {
			return fmt.Errorf("embed chunk: %w", err)
		}

		docs = append(docs, rag.Document{
			ID:         uuid.NewString(),
			Faculty:    faculty,
			SourceType: sourceType,
			Title:      chunkTitle,
			Content:    content,
			SourceURL:  sourceURL,
			Embedding:  vec,
			CreatedAt:  time.Now(),
		})
	}

	if err := imp.store.Add(ctx, docs); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	imp.logger.Info("imported",
		zap.String("title", title),
		zap.String("source", sourceURL),
		zap.Int("chunks", len(docs)))
	return nil
}

func filenameToTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}
