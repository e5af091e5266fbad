// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Given a FASTA file holding two aligned sequences, bio-recomb slides a fixed
window across both and reports every window whose mismatch rate exceeds a
threshold, i.e. candidate recombination breakpoints.

By default the first two sequences in the file are compared; -seq1 and -seq2
select others.  Window start positions are split into contiguous ranges and
scored on -parallelism workers unless -sequential is given; both modes report
the same events in the same order.

Sample usage:
bio-recomb \
    --window 100 \
    --threshold 0.1 \
    --out events.tsv \
    --regions regions.tsv \
    pair.fa.gz
*/
package main
