package testutil

// ServiceScriptPath is where the generator puts ServiceScript in a shard tree
const ServiceScriptPath = "implementors/tokio_service/trait.Service.js"

// ServiceScript is a generated script shard announcing two tokio_proto
// implementors of tokio_service::Service.
const ServiceScript = `(function() {var implementors = {};
implementors["tokio_proto"] = ["impl&lt;R1,&nbsp;R2,&nbsp;B1,&nbsp;B2,&nbsp;E&gt; Service for <a class='struct' href='tokio_proto/client/struct.Client.html' title='tokio_proto::client::Client'>Client</a>&lt;R1,&nbsp;R2,&nbsp;B1,&nbsp;B2,&nbsp;E&gt; <span class='where'>where R1: 'static, R2: 'static, B1: <a class='trait' href='https://docs.rs/futures/0.1/futures/stream/trait.Stream.html' title='futures::stream::Stream'>Stream</a>&lt;Error=E&gt; + 'static, B2: 'static, E: <a class='trait' href='https://doc.rust-lang.org/nightly/core/convert/trait.From.html' title='core::convert::From'>From</a>&lt;<a class='enum' href='tokio_proto/enum.Error.html' title='tokio_proto::Error'>Error</a>&lt;E&gt;&gt; + 'static</span>","impl&lt;R1,&nbsp;R2&gt; Service for <a class='struct' href='tokio_proto/easy/struct.EasyClient.html' title='tokio_proto::easy::EasyClient'>EasyClient</a>&lt;R1,&nbsp;R2&gt; <span class='where'>where R1: 'static, R2: 'static</span>",];

            if (window.register_implementors) {
                window.register_implementors(implementors);
            } else {
                window.pending_implementors = implementors;
            }
        
})()
`

// ReadTOML announces std::io::Read implementors as a TOML shard
const ReadTOML = `trait = "std::io::Read"

[[crates]]
name = "bytes"

[[crates.implementors]]
text = "impl<B: Buf> Read for Reader<B>"
generics = ["B: Buf"]

[[crates.implementors]]
text = "impl Read for Bytes"
synthetic = true

[[crates]]
name = "empty"
`

// ReadYAML is ReadTOML as a YAML shard
const ReadYAML = `trait: std::io::Read
crates:
  - name: bytes
    implementors:
      - text: "impl<B: Buf> Read for Reader<B>"
        generics: ["B: Buf"]
      - text: impl Read for Bytes
        synthetic: true
  - name: empty
`

// ReadJSON is ReadTOML as a JSON shard
const ReadJSON = `{
  "trait": "std::io::Read",
  "crates": [
    {"name": "bytes", "implementors": [
      {"text": "impl<B: Buf> Read for Reader<B>", "generics": ["B: Buf"]},
      {"text": "impl Read for Bytes", "synthetic": true}
    ]},
    {"name": "empty", "implementors": []}
  ]
}
`

// ReadXML is ReadTOML as an XML shard
const ReadXML = `<?xml version="1.0" encoding="UTF-8"?>
<shard trait="std::io::Read">
  <crate name="bytes">
    <impl>
      <text><![CDATA[impl<B: Buf> Read for Reader<B>]]></text>
      <generic>B: Buf</generic>
    </impl>
    <impl synthetic="true">
      <text>impl Read for Bytes</text>
    </impl>
  </crate>
  <crate name="empty"/>
</shard>
`
