// Package grove wires a live category / topic / note tree.
//
// A store holds three nested collections: categories own topics, topics own
// notes. Every list is live: a subscription receives a fresh, ordered
// snapshot whenever a document in its collection changes, whoever made the
// change.
//
// Adapters:
//
//   - fs (default): one file per document under the data directory, watched
//     with fsnotify. Formats: json, yaml, md.
//   - sqlite: a single grove.db file, pure Go driver.
//
// Usage:
//
//	svc, err := grove.New(ctx, "./data", grove.WithAdapter(grove.AdapterSQLite))
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	client := grove.NewClient(svc, grove.ClientConfig{Cascade: true})
//	defer client.Close()
//
//	id, err := client.Create(ctx, tree.Categories(), core.Fields{"name": "Work"})
//
//	sub, err := client.Subscribe(ctx, tree.Topics(id))
//	for snap := range sub.Snapshots() {
//		topics, _ := grove.DecodeAll[grove.Topic](snap.Documents)
//		// ...
//	}
package grove
