// Package sampler builds a deduplicated playlist by sampling artist discographies from a [services.Catalog].
//
// # Pipeline
//
// Data flows strictly downward:
//
//  1. [Assembler.Assemble] merges one [Pool] per seed artist into the final sequence
//  2. [PoolBuilder.Build] samples an artist's releases into a [Pool]
//  3. [EnumerateAlbums] lists an artist's album and single ids
//  4. [HarvestTracks] reads every page of an album's track listing
//
// # Deduplication
//
// A track is a duplicate when its id or its [models.NameKey] has already been accepted,
// so remasters and reissues with new ids collapse into the first copy.
//
// # Fairness
//
// With several seed artists the assembler takes turns, one accepted track per artist per turn,
// and stops an artist at [PerArtistCap]. Quota an exhausted artist leaves unused is not handed to others.
//
// # Randomness
//
// Shuffling draws from the *rand.Rand injected into [PoolBuilder], so a fixed seed reproduces a run.
// Nothing in this package logs or keeps global state.
package sampler
