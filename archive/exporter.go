package archive

import (
	"context"
	"fmt"

	"github.com/datatrails/go-datatrails-common/azblob"
)

// KELSource is the narrow slice of Baser an Exporter needs: the
// ordinal digest index for a prefix and the assembled wire bytes for
// one event.
type KELSource interface {
	GetKelDigs(pre string, sn uint64) ([]string, error)
	CloneEvtMsg(pre string, sn uint64, dig string) ([]byte, error)
}

// Exporter archives cloned KERI event messages to a BlobStore, one
// blob per (pre, sn, dig), tagged so a later FilterBlobs call can
// select all archived events for a prefix without reading blob
// bodies.
type Exporter struct {
	Store     BlobStore
	Container string
	Kel       KELSource
}

func NewExporter(store BlobStore, container string, kel KELSource) *Exporter {
	return &Exporter{Store: store, Container: container, Kel: kel}
}

// blobPath names an archived event's blob, grouping by prefix so an
// account-wide prefix listing (EnumerateIdentifiedPaths-style) finds
// every archived prefix without a full scan.
func blobPath(pre string, sn uint64, dig string) string {
	return fmt.Sprintf("%s/%020d/%s.cesr", pre, sn, dig)
}

// ArchiveEvent clones the event at (pre, sn, dig) from the KEL source
// and writes it to the blob store, tagged by prefix, sequence number
// and digest. Archival is idempotent: a second archive of the same
// (pre, sn, dig) simply overwrites the existing blob, since the
// cloned bytes for a given digest never change.
func (x *Exporter) ArchiveEvent(ctx context.Context, pre string, sn uint64, dig string) (*azblob.WriteResponse, error) {
	raw, err := x.Kel.CloneEvtMsg(pre, sn, dig)
	if err != nil {
		return nil, err
	}
	opts := []azblob.Option{
		azblob.WithTags(map[string]string{
			"pre": pre,
			"sn":  fmt.Sprintf("%d", sn),
			"dig": dig,
		}),
	}
	return x.Store.Put(ctx, blobPath(pre, sn, dig), azblob.NewBytesReaderCloser(raw), opts...)
}

// ArchiveSn archives every competing event recorded at (pre, sn),
// covering the rare case where duplicitous events share a sequence
// number (spec.md §4.6's kels index keeps all of them).
func (x *Exporter) ArchiveSn(ctx context.Context, pre string, sn uint64) ([]*azblob.WriteResponse, error) {
	digs, err := x.Kel.GetKelDigs(pre, sn)
	if err != nil {
		return nil, err
	}
	wrs := make([]*azblob.WriteResponse, 0, len(digs))
	for _, dig := range digs {
		wr, err := x.ArchiveEvent(ctx, pre, sn, dig)
		if err != nil {
			return wrs, err
		}
		wrs = append(wrs, wr)
	}
	return wrs, nil
}

// ArchivedEvents lists the blobs already archived for pre, paging via
// marker exactly as massifs.FilterBlobs does.
func (x *Exporter) ArchivedEvents(ctx context.Context, pre string, marker azblob.ListMarker) ([]string, azblob.ListMarker, error) {
	tagsFilter := fmt.Sprintf("pre='%s'", pre)
	items, next, err := FilterBlobs(ctx, x.Store, tagsFilter, nil, marker)
	if err != nil {
		return nil, marker, err
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		if it.Name != nil {
			names = append(names, *it.Name)
		}
	}
	return names, next, nil
}
