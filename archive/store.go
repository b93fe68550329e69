// Package archive optionally exports cloned KERI event messages to
// Azure Blob Storage, for off-box retention of a Baser directory's
// content beyond the local LMDB environment (spec.md's core treats
// archival as an external collaborator; this package is one such
// optional exporter).
package archive

import (
	"context"

	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/datatrails/go-datatrails-common/azblob"
)

// BlobStore is the narrow blob-store surface Exporter needs: write a
// blob with tags and optimistic-concurrency options, read one back,
// and enumerate existing blobs by tag filter, mirroring
// massifs/blobreader.go's logBlobReader and massifcommitter.go's
// massifStore.Put usage.
type BlobStore interface {
	Put(ctx context.Context, blobPath string, reader azblob.ReaderCloser, opts ...azblob.Option) (*azblob.WriteResponse, error)
	Reader(ctx context.Context, identity string, opts ...azblob.Option) (*azblob.ReaderResponse, error)
	FilteredList(ctx context.Context, tagsFilter string, opts ...azblob.Option) (*azblob.FilterResponse, error)
	List(ctx context.Context, opts ...azblob.Option) (*azblob.ListerResponse, error)
}

// VisitFilterResponse mirrors massifs.VisitFilterResponse's shape for
// filtering an enumeration of archived blobs.
type VisitFilterResponse func(ctx context.Context, store BlobStore, item *azStorageBlob.FilterBlobItem) (bool, error)

// FilterBlobs selects archived blobs using tagsFilter and an optional
// visitor, paging via marker exactly as massifs.FilterBlobs does.
func FilterBlobs(
	ctx context.Context, store BlobStore, tagsFilter string, visit VisitFilterResponse,
	marker azblob.ListMarker, opts ...azblob.Option,
) ([]*azStorageBlob.FilterBlobItem, azblob.ListMarker, error) {
	opts = append(opts, azblob.WithListMarker(marker))
	r, err := store.FilteredList(ctx, tagsFilter, opts...)
	if err != nil {
		return nil, marker, err
	}
	if visit == nil {
		return r.Items, r.Marker, nil
	}
	var kept []*azStorageBlob.FilterBlobItem
	for i := range r.Items {
		ok, err := visit(ctx, store, r.Items[i])
		if err != nil {
			return nil, marker, err
		}
		if ok {
			kept = append(kept, r.Items[i])
		}
	}
	return kept, r.Marker, nil
}
