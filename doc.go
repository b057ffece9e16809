// Package wikiparse renders MediaWiki wikitext to plain text and keeps
// track of where each internal link ends up.
//
// Parsing is driven by a rule table: each token label has a regular
// expression, and each mode lists the labels it recognizes. Some tokens
// push a new mode or pop back to the previous one, which is how comments,
// templates, references and the like get their own rules. The built in
// table lives in rules/ and can be replaced with LoadRuleTable or
// LoadRuleTableYAML.
//
//    doc := wikiparse.Parse("'''Dog''' is a [[mammal]]s.")
//    // doc.Lines: ["Dog is a mammals."]
//    // doc.Links: [{Line: 0, Start: 9, Length: 7, Destination: "mammal"}]
//
// The package also reads the wikipedia xml dump format. The dumps are
// available from the wikimedia group here:
//    http://dumps.wikimedia.org/
//
// Process walks a dump, extracting main namespace Articles on a pool of
// workers. See tools/wikigold for a command line front end that loads
// them into MongoDB, CouchDB, Couchbase, ElasticSearch or JSON files.
package wikiparse
