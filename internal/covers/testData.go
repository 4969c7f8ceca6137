package covers

const searchPageSuccessResponse = `<!DOCTYPE html>
<html>
<head><title>Search | Open Library</title></head>
<body>
<ul id="searchResults">
  <li class="searchResultItem">
    <span class="bookcover">
      <img class="bookcover" src="//covers.openlibrary.org/b/id/12627793-M.jpg" alt="Cover of: Dune">
    </span>
    <div class="details">
      <a href="/works/OL893415W/Dune">Dune</a>
      <span class="bookauthor">by <a href="/authors/OL79034A">Frank Herbert</a></span>
    </div>
  </li>
  <li class="searchResultItem">
    <span class="bookcover">
      <img class="bookcover" src="//covers.openlibrary.org/b/id/8745201-M.jpg" alt="Cover of: Dune Messiah">
    </span>
    <div class="details">
      <a href="/works/OL893416W/Dune_Messiah">Dune Messiah</a>
    </div>
  </li>
</ul>
</body>
</html>`

const searchPageNoCoversResponse = `<!DOCTYPE html>
<html>
<head><title>Search | Open Library</title></head>
<body>
<ul id="searchResults"></ul>
</body>
</html>`
