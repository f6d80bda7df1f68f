package registry

import (
	"testing"

	"github.com/arthur-debert/implshard/pkg/testutil"
	"github.com/arthur-debert/implshard/pkg/types"
)

func TestWellKnownNames(t *testing.T) {
	testutil.AssertEqual(t, "register_implementors", RegisterFuncName)
	testutil.AssertEqual(t, "pending_implementors", HoldingAreaName)
}

func TestDefaultHub(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	hub := Default()
	testutil.AssertTrue(t, hub == Default(), "Default() returns the same hub")
	testutil.AssertEqual(t, HoldingAreaName, hub.Name())

	MustPublish("tokio_service::Service@tokio_proto", types.PayloadOf("Client", "EasyClient"))
	testutil.AssertEqual(t, 1, hub.PendingCount())

	rec := testutil.NewRecorder()
	testutil.AssertNoError(t, Install(rec))
	testutil.AssertEqual(t, []string{"tokio_service::Service@tokio_proto"}, rec.IDs())

	testutil.AssertNoError(t, Publish("std::io::Read@bytes", types.PayloadOf("Reader")))
	testutil.AssertEqual(t, 2, rec.Count())
}

func TestMustPublishPanics(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	testutil.AssertPanic(t, func() {
		MustPublish("", types.Payload{})
	})
}
