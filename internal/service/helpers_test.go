package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"curator/internal/domain"
	"curator/internal/domain/models"
	"curator/internal/domain/repositories"
	"curator/internal/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New()
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	return reg
}

// snapshotter lets the fake transaction manager capture and restore a
// repo's state, mimicking rollback semantics
type snapshotter interface {
	snapshot() func()
}

// fakeTxManager snapshots the given stores before running the function and
// restores them when it fails. Transactions are serialized so a rollback
// never clobbers a concurrent commit.
type fakeTxManager struct {
	mu     sync.Mutex
	stores []snapshotter
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// fakeClaims mirrors the file claims table: one entry per consumed managed
// file, shared by the version, asset and expense fakes so cross-table
// exclusivity behaves the way the database enforces it
type fakeClaims struct {
	mu     sync.Mutex
	byFile map[string]string
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{byFile: make(map[string]string)}
}

func (c *fakeClaims) snapshot() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	saved := make(map[string]string, len(c.byFile))
	for k, v := range c.byFile {
		saved[k] = v
	}
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.byFile = saved
	}
}

func (c *fakeClaims) claim(managedFileID, linkType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.byFile[managedFileID]; taken {
		return &domain.LinkageError{ManagedFileID: managedFileID, LinkType: linkType}
	}
	c.byFile[managedFileID] = linkType
	return nil
}

func (c *fakeClaims) release(managedFileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byFile, managedFileID)
}

// fakeFileRepo is an in-memory ManagedFileRepository
type fakeFileRepo struct {
	mu    sync.Mutex
	files map[string]models.ManagedFile
	// failCreate forces Create to fail, for exercising compensation paths
	failCreate error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]models.ManagedFile)}
}

func (r *fakeFileRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]models.ManagedFile, len(r.files))
	for k, v := range r.files {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.files = saved
	}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.ManagedFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, f := range r.files {
		if f.Path == file.Path {
			return &domain.ConflictError{
				Message:      "path already cataloged",
				ResourceType: "managed_file",
				ResourceID:   f.ID,
			}
		}
	}
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*models.ManagedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("managed file %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *fakeFileRepo) GetByPath(ctx context.Context, path string) (*models.ManagedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.Path == path {
			out := f
			return &out, nil
		}
	}
	return nil, fmt.Errorf("managed file at %s: %w", path, domain.ErrNotFound)
}

func (r *fakeFileRepo) ExistsByPath(ctx context.Context, path string) (bool, error) {
	_, err := r.GetByPath(ctx, path)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *fakeFileRepo) Update(ctx context.Context, file *models.ManagedFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[file.ID]; !ok {
		return fmt.Errorf("managed file %s: %w", file.ID, domain.ErrNotFound)
	}
	r.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) UpdateHash(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return fmt.Errorf("managed file %s: %w", id, domain.ErrNotFound)
	}
	f.ContentHash = &hash
	r.files[id] = f
	return nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return fmt.Errorf("managed file %s: %w", id, domain.ErrNotFound)
	}
	delete(r.files, id)
	return nil
}

func (r *fakeFileRepo) List(ctx context.Context, offset, limit int) ([]models.ManagedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ManagedFile, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFileRepo) ListFiltered(ctx context.Context, opts *models.ListFilesOptions) (*models.FileListResult, error) {
	files, _ := r.List(ctx, 0, 0)
	return &models.FileListResult{Files: files, Total: len(files)}, nil
}

func (r *fakeFileRepo) SearchByName(ctx context.Context, substring string) ([]models.ManagedFile, error) {
	return r.List(ctx, 0, 0)
}

func (r *fakeFileRepo) Stats(ctx context.Context) (*models.CatalogStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.CatalogStats{FileCount: len(r.files)}
	for _, f := range r.files {
		if f.SizeBytes != nil {
			stats.TotalBytes += *f.SizeBytes
		}
	}
	return stats, nil
}

// fakeDocRepo is an in-memory LogicalDocumentRepository
type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[string]models.LogicalDocument
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]models.LogicalDocument)}
}

func (r *fakeDocRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]models.LogicalDocument, len(r.docs))
	for k, v := range r.docs {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.docs = saved
	}
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.LogicalDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeDocRepo) GetByID(ctx context.Context, id string) (*models.LogicalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("logical document %s: %w", id, domain.ErrNotFound)
	}
	return &d, nil
}

func (r *fakeDocRepo) Update(ctx context.Context, doc *models.LogicalDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("logical document %s: %w", doc.ID, domain.ErrNotFound)
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeDocRepo) SetOfficialVersion(ctx context.Context, docID string, versionID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[docID]
	if !ok {
		return fmt.Errorf("logical document %s: %w", docID, domain.ErrNotFound)
	}
	d.OfficialVersionID = versionID
	r.docs[docID] = d
	return nil
}

func (r *fakeDocRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("logical document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) List(ctx context.Context) ([]models.LogicalDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LogicalDocument, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeVerRepo is an in-memory DocumentVersionRepository enforcing the
// file claim the way the database does
type fakeVerRepo struct {
	mu       sync.Mutex
	versions map[string]models.DocumentVersion
	claims   *fakeClaims
	// failCreate forces Create to fail, for exercising compensation paths
	failCreate error
}

func newFakeVerRepo(claims *fakeClaims) *fakeVerRepo {
	return &fakeVerRepo{versions: make(map[string]models.DocumentVersion), claims: claims}
}

func (r *fakeVerRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]models.DocumentVersion, len(r.versions))
	for k, v := range r.versions {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.versions = saved
	}
}

func (r *fakeVerRepo) Create(ctx context.Context, version *models.DocumentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if err := r.claims.claim(version.ManagedFileID, "version"); err != nil {
		return err
	}
	r.versions[version.ID] = *version
	return nil
}

func (r *fakeVerRepo) GetByID(ctx context.Context, id string) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, fmt.Errorf("document version %s: %w", id, domain.ErrNotFound)
	}
	return &v, nil
}

func (r *fakeVerRepo) GetByManagedFile(ctx context.Context, managedFileID string) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.ManagedFileID == managedFileID {
			out := v
			return &out, nil
		}
	}
	return nil, fmt.Errorf("version for file %s: %w", managedFileID, domain.ErrNotFound)
}

func (r *fakeVerRepo) ListByDocument(ctx context.Context, logicalDocumentID string) ([]models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentVersion
	for _, v := range r.versions {
		if v.LogicalDocumentID == logicalDocumentID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeVerRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return fmt.Errorf("document version %s: %w", id, domain.ErrNotFound)
	}
	delete(r.versions, id)
	r.claims.release(v.ManagedFileID)
	return nil
}

// fakeAssetRepo is an in-memory ProjectAssetRepository
type fakeAssetRepo struct {
	mu     sync.Mutex
	assets map[string]models.ProjectAsset
	claims *fakeClaims
}

func newFakeAssetRepo(claims *fakeClaims) *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]models.ProjectAsset), claims: claims}
}

func (r *fakeAssetRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]models.ProjectAsset, len(r.assets))
	for k, v := range r.assets {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.assets = saved
	}
}

func (r *fakeAssetRepo) Create(ctx context.Context, asset *models.ProjectAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.claims.claim(asset.ManagedFileID, "asset"); err != nil {
		return err
	}
	r.assets[asset.ID] = *asset
	return nil
}

func (r *fakeAssetRepo) GetByID(ctx context.Context, id string) (*models.ProjectAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("project asset %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (r *fakeAssetRepo) ListByProject(ctx context.Context, projectID string) ([]models.ProjectAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProjectAsset
	for _, a := range r.assets {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("project asset %s: %w", id, domain.ErrNotFound)
	}
	delete(r.assets, id)
	r.claims.release(a.ManagedFileID)
	return nil
}

// fakeExpRepo is an in-memory ExpenseAttachmentRepository
type fakeExpRepo struct {
	mu          sync.Mutex
	attachments map[string]models.ExpenseAttachment
	claims      *fakeClaims
	// failCreate forces Create to fail, for exercising compensation paths
	failCreate error
}

func newFakeExpRepo(claims *fakeClaims) *fakeExpRepo {
	return &fakeExpRepo{attachments: make(map[string]models.ExpenseAttachment), claims: claims}
}

func (r *fakeExpRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[string]models.ExpenseAttachment, len(r.attachments))
	for k, v := range r.attachments {
		saved[k] = v
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.attachments = saved
	}
}

func (r *fakeExpRepo) Create(ctx context.Context, att *models.ExpenseAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if err := r.claims.claim(att.ManagedFileID, "expense"); err != nil {
		return err
	}
	r.attachments[att.ID] = *att
	return nil
}

func (r *fakeExpRepo) GetByID(ctx context.Context, id string) (*models.ExpenseAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return nil, fmt.Errorf("expense attachment %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (r *fakeExpRepo) ListByProject(ctx context.Context, projectID string) ([]models.ExpenseAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ExpenseAttachment
	for _, a := range r.attachments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeExpRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[id]
	if !ok {
		return fmt.Errorf("expense attachment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.attachments, id)
	r.claims.release(a.ManagedFileID)
	return nil
}
